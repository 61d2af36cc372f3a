// Package slideshow runs the hero photo slider: a rotation index, play state
// and progress value driven by timers, navigation actions and pointer hover.
package slideshow

import (
	"slices"
	"sync"
	"time"
)

type Transition string

const (
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionScale Transition = "scale"
)

type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16/9"
	AspectRatio4x3  AspectRatio = "4/3"
	AspectRatio1x1  AspectRatio = "1/1"
)

const (
	DefaultInterval = 4000 * time.Millisecond

	// ProgressSampleInterval is how often the progress value is advanced
	// while the slider is playing.
	ProgressSampleInterval = 100 * time.Millisecond
)

// Key values as reported by KeyboardEvent.key in the browser.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeySpace      = " "
)

// Photo is a single slide. The slider only reads photos; callers own the
// backing records.
type Photo struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
	Order   int    `json:"order"`
}

type Config struct {
	Autoplay     bool          `json:"autoplay"`
	Interval     time.Duration `json:"interval"`
	ShowDots     bool          `json:"show_dots"`
	ShowProgress bool          `json:"show_progress"`
	Transition   Transition    `json:"transition"`
	AspectRatio  AspectRatio   `json:"aspect_ratio"`
}

func DefaultConfig() Config {
	return Config{
		Autoplay:     true,
		Interval:     DefaultInterval,
		ShowDots:     true,
		ShowProgress: true,
		Transition:   TransitionFade,
		AspectRatio:  AspectRatio4x3,
	}
}

// Normalize replaces out of range values with their defaults.
func (c Config) Normalize() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	switch c.Transition {
	case TransitionFade, TransitionSlide, TransitionScale:
	default:
		c.Transition = TransitionFade
	}
	switch c.AspectRatio {
	case AspectRatio16x9, AspectRatio4x3, AspectRatio1x1:
	default:
		c.AspectRatio = AspectRatio4x3
	}
	return c
}

// State is a snapshot of a slider. Playing is true only when neither an
// explicit pause nor a hover pause is in effect.
type State struct {
	Index      int     `json:"index"`
	Count      int     `json:"count"`
	Playing    bool    `json:"playing"`
	UserPaused bool    `json:"user_paused"`
	Hovered    bool    `json:"hovered"`
	Progress   float64 `json:"progress"`
}

type EventKind int

const (
	// EventState is sent when the index, play state, photos or config change.
	EventState EventKind = iota
	// EventProgress is sent for every progress sample.
	EventProgress
)

type Event struct {
	Kind  EventKind
	State State
}

// Slider owns its state and timers exclusively. Every transition runs under
// mu, so timer callbacks and user actions never interleave.
type Slider struct {
	mu    sync.Mutex
	clock Clock
	cfg   Config

	photos     []Photo
	index      int
	userPaused bool
	hovered    bool
	progress   float64

	// gen invalidates callbacks of timers that were stopped after firing
	gen      uint64
	rotation Timer
	sampler  Timer
	closed   bool

	subs    map[int]chan Event
	nextSub int

	// whileWatched keeps the timers disarmed until someone subscribes
	whileWatched bool
	watched      bool
}

type Option func(*Slider)

// WhileWatched only runs rotation and progress timers while the slider has
// at least one subscriber. The state still reports Playing in between.
func WhileWatched() Option {
	return func(s *Slider) { s.whileWatched = true }
}

// New creates a slider and starts its timers when it should be playing.
// A nil clock uses RealClock.
func New(photos []Photo, cfg Config, clock Clock, opts ...Option) *Slider {
	if clock == nil {
		clock = RealClock
	}
	cfg = cfg.Normalize()

	s := &Slider{
		clock:      clock,
		cfg:        cfg,
		photos:     slices.Clone(photos),
		userPaused: !cfg.Autoplay,
		subs:       make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.restartLocked()
	s.mu.Unlock()

	return s
}

func (s *Slider) Next() { s.step(1) }

func (s *Slider) Prev() { s.step(-1) }

func (s *Slider) step(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.photos)
	if s.closed || n == 0 {
		return
	}
	s.index = ((s.index+delta)%n + n) % n
	s.restartLocked()
	s.notifyLocked(EventState)
}

// GoTo jumps to index i, clamped to the valid range.
func (s *Slider) GoTo(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.photos)
	if s.closed || n == 0 {
		return
	}
	s.index = min(max(i, 0), n-1)
	s.restartLocked()
	s.notifyLocked(EventState)
}

// Toggle flips what the viewer sees. A playing slider becomes explicitly
// paused, and leaving it with the pointer does not resume it. A slider that
// is not playing, whether paused explicitly or by hover, resumes at once.
func (s *Slider) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.playingLocked() {
		s.userPaused = true
	} else {
		s.userPaused = false
		s.hovered = false
	}
	s.restartLocked()
	s.notifyLocked(EventState)
}

// HoverEnter pauses rotation while the pointer is over the slider. It has no
// effect when autoplay is disabled.
func (s *Slider) HoverEnter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.cfg.Autoplay || s.hovered {
		return
	}
	s.hovered = true
	s.restartLocked()
	s.notifyLocked(EventState)
}

func (s *Slider) HoverLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.hovered {
		return
	}
	s.hovered = false
	s.restartLocked()
	s.notifyLocked(EventState)
}

// HandleKey applies a keyboard action and reports whether the page default
// for the key (scrolling on space) must be suppressed.
func (s *Slider) HandleKey(key string) (preventDefault bool) {
	switch key {
	case KeyArrowLeft:
		s.Prev()
	case KeyArrowRight:
		s.Next()
	case KeySpace, "Space", "Spacebar":
		s.Toggle()
		return true
	}
	return false
}

// SetPhotos replaces the photo collection, keeping the index in range.
func (s *Slider) SetPhotos(photos []Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.photos = slices.Clone(photos)
	s.index = min(s.index, max(len(s.photos)-1, 0))
	s.restartLocked()
	s.notifyLocked(EventState)
}

func (s *Slider) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	cfg = cfg.Normalize()
	if cfg.Autoplay != s.cfg.Autoplay {
		s.userPaused = !cfg.Autoplay
		s.hovered = false
	}
	s.cfg = cfg
	s.restartLocked()
	s.notifyLocked(EventState)
}

func (s *Slider) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Slider) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Slider) stateLocked() State {
	return State{
		Index:      s.index,
		Count:      len(s.photos),
		Playing:    s.playingLocked(),
		UserPaused: s.userPaused,
		Hovered:    s.hovered,
		Progress:   s.progress,
	}
}

// Subscribe returns a channel of change events and a function that ends the
// subscription. A subscriber that falls behind has its backlog collapsed into
// a single EventState carrying the latest state. The channel is closed when
// the slider is closed.
func (s *Slider) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 8)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.watched = true
	if s.whileWatched && len(s.subs) == 1 {
		s.restartLocked()
	}

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		if s.whileWatched && len(s.subs) == 0 {
			s.stopTimersLocked()
		}
	}
}

// Watched reports whether the slider ever had a subscriber.
func (s *Slider) Watched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watched
}

func (s *Slider) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close stops every timer and ends all subscriptions. It is safe to call
// more than once.
func (s *Slider) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopTimersLocked()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Slider) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Slider) playingLocked() bool {
	return !s.closed && !s.userPaused && !s.hovered
}

// restartLocked cancels both timers, resets progress and re-arms the timers
// if the slider has something to rotate.
func (s *Slider) restartLocked() {
	s.stopTimersLocked()
	s.progress = 0

	if !s.playingLocked() || len(s.photos) <= 1 {
		return
	}
	if s.whileWatched && len(s.subs) == 0 {
		return
	}

	gen := s.gen
	s.rotation = s.clock.AfterFunc(s.cfg.Interval, func() { s.rotate(gen) })
	if s.cfg.ShowProgress {
		s.sampler = s.clock.AfterFunc(ProgressSampleInterval, func() { s.sample(gen) })
	}
}

func (s *Slider) stopTimersLocked() {
	s.gen++
	if s.rotation != nil {
		s.rotation.Stop()
		s.rotation = nil
	}
	if s.sampler != nil {
		s.sampler.Stop()
		s.sampler = nil
	}
}

func (s *Slider) rotate(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen || len(s.photos) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.photos)
	s.restartLocked()
	s.notifyLocked(EventState)
}

func (s *Slider) sample(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return
	}
	s.progress = min(100, s.progress+s.progressStep())
	s.sampler = s.clock.AfterFunc(ProgressSampleInterval, func() { s.sample(gen) })
	s.notifyLocked(EventProgress)
}

func (s *Slider) progressStep() float64 {
	return 100 / (float64(s.cfg.Interval) / float64(ProgressSampleInterval))
}

func (s *Slider) notifyLocked(kind EventKind) {
	if len(s.subs) == 0 {
		return
	}

	ev := Event{Kind: kind, State: s.stateLocked()}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
			continue
		default:
		}

	drain:
		for {
			select {
			case <-ch:
			default:
				break drain
			}
		}

		refresh := Event{Kind: EventState, State: ev.State}
		select {
		case ch <- refresh:
		default:
		}
	}
}
