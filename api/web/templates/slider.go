package templates

import (
	"context"
	"math"
	"strconv"

	"github.com/a-h/templ"

	"github.com/aouyang1/portfolio/slideshow"
)

// Slider renders a slider instance. The same markup is pushed over the
// event stream whenever the slider state changes.
func Slider(id string, v slideshow.View) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section`)
		hw.attr("id", "slider-"+id)
		hw.attr("class", classes("slider", "slider--"+string(v.Transition), ifElse(v.Playing, "is-playing", "is-paused")))
		hw.attr("style", "aspect-ratio: "+string(v.AspectRatio))
		hw.attr("data-slider-id", id)
		hw.attr("data-slider-url", sliderURL(id))
		hw.raw(` tabindex="0" aria-roledescription="carousel" aria-label="Photo slider">`)

		if v.Empty {
			hw.raw(`<div class="slider-empty"><p>No photos yet</p></div>`)
			hw.raw(`</section>`)
			return
		}

		hw.raw(`<div class="slider-track" aria-live="polite">`)
		for _, s := range v.Slides {
			hw.raw(`<figure`)
			hw.attr("class", classes("slide", ifElse(s.Active, "is-active", "")))
			hw.attr("aria-hidden", ifElse(s.Active, "false", "true"))
			hw.attr("data-position", strconv.Itoa(s.Position))
			hw.raw(`><img`)
			hw.attr("src", s.Src)
			hw.attr("alt", s.Alt)
			hw.attr("loading", ifElse(s.Position == 0, "eager", "lazy"))
			hw.raw(`>`)
			if s.Caption != "" {
				hw.raw(`<figcaption>`)
				hw.text(s.Caption)
				hw.raw(`</figcaption>`)
			}
			hw.raw(`</figure>`)
		}
		hw.raw(`</div>`)

		if v.ShowControls {
			hw.raw(`<button type="button" class="slider-nav slider-prev" data-action="prev" aria-label="Previous photo">&#8249;</button>`)
			hw.raw(`<button type="button" class="slider-nav slider-next" data-action="next" aria-label="Next photo">&#8250;</button>`)
		}

		if v.ShowPlayToggle {
			hw.raw(`<button type="button" class="slider-toggle" data-action="toggle"`)
			hw.attr("aria-pressed", ifElse(v.Playing, "false", "true"))
			hw.attr("aria-label", ifElse(v.Playing, "Pause slideshow", "Play slideshow"))
			hw.raw(`>`)
			hw.raw(ifElse(v.Playing, "&#10074;&#10074;", "&#9654;"))
			hw.raw(`</button>`)
		}

		if v.ShowDots {
			hw.raw(`<div class="slider-dots" role="tablist">`)
			for _, s := range v.Slides {
				hw.raw(`<button type="button" role="tab"`)
				hw.attr("class", classes("slider-dot", ifElse(s.Active, "is-active", "")))
				hw.attr("data-action", "goto/"+strconv.Itoa(s.Position))
				hw.attr("aria-selected", ifElse(s.Active, "true", "false"))
				hw.attr("aria-label", "Show photo "+strconv.Itoa(s.Position+1))
				hw.raw(`></button>`)
			}
			hw.raw(`</div>`)
		}

		if v.ShowProgress {
			hw.render(ctx, Progress(v.Progress))
		}

		hw.raw(`</section>`)
	})
}

// Progress renders the progress bar for a value between 0 and 100.
func Progress(progress float64) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="slider-progress" role="progressbar" aria-valuemin="0" aria-valuemax="100"`)
		hw.attr("aria-valuenow", FormatProgress(progress))
		hw.raw(`><div class="slider-progress-bar"`)
		hw.attr("style", "width: "+FormatProgress(progress)+"%")
		hw.raw(`></div></div>`)
	})
}

// FormatProgress prints a progress value with at most one decimal.
func FormatProgress(progress float64) string {
	p := math.Round(min(max(progress, 0), 100)*10) / 10
	return strconv.FormatFloat(p, 'f', -1, 64)
}
