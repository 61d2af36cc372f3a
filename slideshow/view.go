package slideshow

// Slide is a photo together with its position in the slider. All slides are
// rendered; only the active one is emphasized so the transition can animate
// between the old and the new photo.
type Slide struct {
	Photo
	Position int
	Active   bool
}

// View is everything a template needs to render a slider.
type View struct {
	Slides     []Slide
	Index      int
	Count      int
	Playing    bool
	UserPaused bool
	Progress   float64

	Empty          bool
	ShowControls   bool
	ShowDots       bool
	ShowProgress   bool
	ShowPlayToggle bool

	Transition  Transition
	AspectRatio AspectRatio
}

func (s *Slider) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked()
	multi := st.Count > 1

	v := View{
		Slides:         make([]Slide, len(s.photos)),
		Index:          st.Index,
		Count:          st.Count,
		Playing:        st.Playing,
		UserPaused:     st.UserPaused,
		Progress:       st.Progress,
		Empty:          st.Count == 0,
		ShowControls:   multi,
		ShowDots:       multi && s.cfg.ShowDots,
		ShowProgress:   multi && s.cfg.ShowProgress && st.Playing,
		ShowPlayToggle: multi && s.cfg.Autoplay,
		Transition:     s.cfg.Transition,
		AspectRatio:    s.cfg.AspectRatio,
	}
	for i, p := range s.photos {
		v.Slides[i] = Slide{Photo: p, Position: i, Active: i == st.Index}
	}
	return v
}

// ActivePhoto returns the emphasized photo, if any.
func (v View) ActivePhoto() (Photo, bool) {
	if v.Empty || v.Index >= len(v.Slides) {
		return Photo{}, false
	}
	return v.Slides[v.Index].Photo, true
}
