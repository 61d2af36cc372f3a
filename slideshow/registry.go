package slideshow

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultIdleTTL      = 30 * time.Minute
	DefaultUnwatchedTTL = 2 * time.Minute
	DefaultMaxSliders   = 1000
)

var ErrRegistryClosed = errors.New("slider registry closed")

// Registry hosts one slider per page view. New sliders start from the
// registry's current photos and config, and photo or config changes are
// pushed to every live slider. Sliders only run their timers while an event
// stream is open, and a slider nobody ever subscribed to is reaped after the
// short unwatched TTL.
type Registry struct {
	mu           sync.Mutex
	clock        Clock
	cfg          Config
	photos       []Photo
	idleTTL      time.Duration
	unwatchedTTL time.Duration
	maxSliders   int
	entries      map[string]*entry
	closed       bool
}

type entry struct {
	slider   *Slider
	lastSeen time.Time
}

type RegistryOption func(*Registry)

func WithClock(c Clock) RegistryOption {
	return func(r *Registry) { r.clock = c }
}

func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = ttl }
}

func WithUnwatchedTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.unwatchedTTL = ttl }
}

func WithMaxSliders(n int) RegistryOption {
	return func(r *Registry) { r.maxSliders = n }
}

func NewRegistry(photos []Photo, cfg Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		clock:      RealClock,
		cfg:        cfg.Normalize(),
		photos:     slices.Clone(photos),
		idleTTL:      DefaultIdleTTL,
		unwatchedTTL: DefaultUnwatchedTTL,
		maxSliders:   DefaultMaxSliders,
		entries:      make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.idleTTL <= 0 {
		r.idleTTL = DefaultIdleTTL
	}
	if r.unwatchedTTL <= 0 {
		r.unwatchedTTL = DefaultUnwatchedTTL
	}
	r.unwatchedTTL = min(r.unwatchedTTL, r.idleTTL)
	if r.maxSliders <= 0 {
		r.maxSliders = DefaultMaxSliders
	}
	return r
}

// Create starts a new slider and returns its id. When the registry is full
// the least recently used slider without an open event stream is closed to
// make room.
func (r *Registry) Create() (string, *Slider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", nil, ErrRegistryClosed
	}

	for len(r.entries) >= r.maxSliders {
		r.evictOldestLocked()
	}

	id := uuid.NewString()
	s := New(r.photos, r.cfg, r.clock, WhileWatched())
	r.entries[id] = &entry{slider: s, lastSeen: r.clock.Now()}
	return id, s, nil
}

// Get returns the slider for id and marks it as recently used.
func (r *Registry) Get(id string) (*Slider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.clock.Now()
	return e.slider, true
}

// Remove closes and forgets the slider for id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		e.slider.Close()
	}
	return ok
}

func (r *Registry) SetPhotos(photos []Photo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.photos = slices.Clone(photos)
	for _, e := range r.entries {
		e.slider.SetPhotos(r.photos)
	}
}

func (r *Registry) SetConfig(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg.Normalize()
	for _, e := range r.entries {
		e.slider.SetConfig(r.cfg)
	}
}

func (r *Registry) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

func (r *Registry) Photos() []Photo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.photos)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reap closes sliders that have not been used within the idle TTL, or
// within the unwatched TTL when they never had a subscriber, and returns how
// many were removed.
func (r *Registry) Reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	reaped := 0
	for id, e := range r.entries {
		ttl := r.idleTTL
		if !e.slider.Watched() {
			ttl = r.unwatchedTTL
		}
		if now.Sub(e.lastSeen) < ttl {
			continue
		}
		e.slider.Close()
		delete(r.entries, id)
		reaped++
	}
	return reaped
}

// Close closes every slider. Create fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, e := range r.entries {
		e.slider.Close()
		delete(r.entries, id)
	}
}

func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	oldestWatched := true
	for id, e := range r.entries {
		watched := e.slider.Watchers() > 0
		switch {
		case oldestID == "":
		case watched && !oldestWatched:
			continue
		case watched == oldestWatched && !e.lastSeen.Before(oldest):
			continue
		}
		oldestID, oldest, oldestWatched = id, e.lastSeen, watched
	}
	if oldestID == "" {
		return
	}
	slog.Debug("evicting least recently used slider", "id", oldestID, "last_seen", oldest)
	r.entries[oldestID].slider.Close()
	delete(r.entries, oldestID)
}
