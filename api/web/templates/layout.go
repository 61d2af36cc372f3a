package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/nav"
)

// Page is the shared state of every full page render.
type Page struct {
	Title    string
	Path     string
	Site     config.Site
	MenuOpen bool
}

func (p Page) documentTitle() string {
	if p.Title == "" {
		return p.Site.Name
	}
	return p.Title + " | " + p.Site.Name
}

func navLinks(site config.Site) nav.Links {
	return nav.Links{
		GitHub:   site.Links.GitHub,
		LinkedIn: site.Links.LinkedIn,
		Resume:   site.Links.Resume,
	}
}

// Layout wraps body in the document shell with the header and footer.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(p.documentTitle())
		hw.raw(`</title>`)
		hw.raw(`<meta name="description"`)
		hw.attr("content", p.Site.Personal.Name+" - "+p.Site.Personal.Goal)
		hw.raw(`>`)
		hw.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		hw.raw(`<link rel="stylesheet" href="/static/css/site.css">`)
		hw.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		hw.raw(`<script src="/static/js/slider.js" defer></script>`)
		hw.render(ctx, Analytics(p.Site.Analytics.GoogleID))
		hw.raw(`</head><body>`)
		hw.render(ctx, Header(p.Site, p.Path, p.MenuOpen))
		hw.raw(`<main id="main">`)
		hw.render(ctx, body)
		hw.raw(`</main>`)
		hw.render(ctx, footer(p.Site))
		hw.raw(`</body></html>`)
	})
}

// Analytics renders the Google Analytics snippet. Nothing is rendered
// without a measurement id.
func Analytics(id string) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		if id == "" {
			return
		}
		hw.raw(`<script async`)
		hw.attr("src", "https://www.googletagmanager.com/gtag/js?id="+id)
		hw.raw(`></script>`)
		hw.raw(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',`)
		hw.raw(jsString(id))
		hw.raw(`);</script>`)
	})
}

// Header renders the site header. It is also served on its own so the
// mobile menu can be toggled without reloading the page.
func Header(site config.Site, path string, menuOpen bool) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		primary := nav.Mark(path, nav.Primary())
		secondary := nav.Secondary(navLinks(site))

		hw.raw(`<header id="site-header" class="site-header">`)
		hw.raw(`<div class="container header-bar">`)
		hw.raw(`<a class="brand" href="/">`)
		hw.text(site.Name)
		hw.raw(`</a>`)

		hw.raw(`<nav class="nav-primary" aria-label="Primary">`)
		writeNavItems(hw, primary)
		hw.raw(`</nav>`)

		hw.raw(`<div class="nav-secondary">`)
		writeNavItems(hw, secondary)
		hw.raw(`<a class="btn btn-outline btn-sm" href="/auth">Log in</a>`)
		hw.raw(`</div>`)

		hw.raw(`<button type="button" class="menu-toggle"`)
		hw.attr("aria-expanded", ifElse(menuOpen, "true", "false"))
		hw.attr("aria-label", ifElse(menuOpen, "Close menu", "Open menu"))
		hw.attr("hx-get", headerURL(path, !menuOpen))
		hw.raw(` hx-target="#site-header" hx-swap="outerHTML">`)
		hw.raw(ifElse(menuOpen, "&times;", "&#9776;"))
		hw.raw(`</button>`)
		hw.raw(`</div>`)

		if menuOpen {
			hw.raw(`<nav class="nav-mobile" aria-label="Mobile">`)
			writeNavItems(hw, primary)
			writeNavItems(hw, secondary)
			hw.raw(`<a href="/auth">Log in</a>`)
			hw.raw(`</nav>`)
		}
		hw.raw(`</header>`)
	})
}

func writeNavItems(hw *htmlWriter, items []nav.Item) {
	for _, item := range items {
		hw.raw(`<a`)
		hw.href(item.Href)
		hw.attr("class", classes("nav-link", ifElse(item.Current, "is-current", "")))
		if item.Current {
			hw.raw(` aria-current="page"`)
		}
		if item.External {
			hw.raw(` target="_blank" rel="noopener noreferrer"`)
		}
		if item.Download {
			hw.raw(` download`)
		}
		hw.raw(`>`)
		hw.text(item.Label)
		hw.raw(`</a>`)
	}
}

func footer(site config.Site) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<footer class="site-footer"><div class="container">`)
		hw.rawf(`<p>&copy; %d `, time.Now().Year())
		hw.text(site.Personal.Name)
		hw.raw(`</p>`)
		hw.raw(`<p><a`)
		hw.href("mailto:" + site.Personal.Email)
		hw.raw(`>`)
		hw.text(site.Personal.Email)
		hw.raw(`</a></p>`)
		hw.raw(`</div></footer>`)
	})
}
