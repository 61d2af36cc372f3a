package slideshow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryCreateGetRemove(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(3), DefaultConfig(), WithClock(clock))
	defer r.Close()

	id, s, err := r.Create()
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 3, s.State().Count)
	require.Equal(t, 1, r.Len())

	got, ok := r.Get(id)
	require.True(t, ok)
	require.Same(t, s, got)

	require.True(t, r.Remove(id))
	require.True(t, s.Closed())
	require.False(t, r.Remove(id))

	_, ok = r.Get(id)
	require.False(t, ok)
	require.Zero(t, clock.Pending())
}

func TestRegistryReapsIdleSliders(t *testing.T) {
	clock := newFakeClock()
	cfg := manualConfig()
	r := NewRegistry(testPhotos(2), cfg, WithClock(clock), WithIdleTTL(time.Minute))
	defer r.Close()

	idleID, idle, err := r.Create()
	require.NoError(t, err)
	activeID, _, err := r.Create()
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, ok := r.Get(activeID)
	require.True(t, ok)

	clock.Advance(30 * time.Second)
	require.Equal(t, 1, r.Reap())
	require.True(t, idle.Closed())

	_, ok = r.Get(idleID)
	require.False(t, ok)
	_, ok = r.Get(activeID)
	require.True(t, ok)
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(2), manualConfig(), WithClock(clock), WithMaxSliders(2))
	defer r.Close()

	first, firstSlider, err := r.Create()
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, _, err := r.Create()
	require.NoError(t, err)
	clock.Advance(time.Second)

	_, ok := r.Get(first)
	require.True(t, ok)
	clock.Advance(time.Second)

	_, _, err = r.Create()
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	_, ok = r.Get(second)
	require.False(t, ok)
	_, ok = r.Get(first)
	require.True(t, ok)
	require.False(t, firstSlider.Closed())
}

func TestRegistryFansOutChanges(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(1), DefaultConfig(), WithClock(clock))
	defer r.Close()

	_, a, err := r.Create()
	require.NoError(t, err)
	_, b, err := r.Create()
	require.NoError(t, err)
	_, stopA := a.Subscribe()
	defer stopA()
	_, stopB := b.Subscribe()
	defer stopB()

	r.SetPhotos(testPhotos(4))
	require.Equal(t, 4, a.State().Count)
	require.Equal(t, 4, b.State().Count)
	require.Len(t, r.Photos(), 4)

	cfg := DefaultConfig()
	cfg.Interval = time.Second
	r.SetConfig(cfg)
	require.Equal(t, time.Second, r.Config().Interval)

	clock.Advance(time.Second)
	require.Equal(t, 1, a.State().Index)
	require.Equal(t, 1, b.State().Index)

	_, c, err := r.Create()
	require.NoError(t, err)
	require.Equal(t, 4, c.State().Count)
	require.Equal(t, time.Second, c.Config().Interval)
}

func TestRegistryClose(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(3), DefaultConfig(), WithClock(clock))

	_, s, err := r.Create()
	require.NoError(t, err)

	r.Close()
	require.True(t, s.Closed())
	require.Zero(t, r.Len())
	require.Zero(t, clock.Pending())

	_, _, err = r.Create()
	require.ErrorIs(t, err, ErrRegistryClosed)
}

func TestRegistrySlidersRunOnlyWhileWatched(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(3), DefaultConfig(), WithClock(clock))
	defer r.Close()

	var sliders []*Slider
	for range 50 {
		_, s, err := r.Create()
		require.NoError(t, err)
		sliders = append(sliders, s)
	}
	require.Zero(t, clock.Pending(), "nobody watches, nothing is scheduled")

	clock.Advance(3 * DefaultInterval)
	require.Equal(t, 0, sliders[0].State().Index)
	require.True(t, sliders[0].State().Playing)

	events, stop := sliders[0].Subscribe()
	require.Equal(t, 2, clock.Pending(), "rotation and progress timers")

	clock.Advance(DefaultInterval)
	require.Equal(t, 1, sliders[0].State().Index)
	require.Equal(t, 0, sliders[1].State().Index)
	require.NotEmpty(t, events)

	stop()
	require.Zero(t, clock.Pending())
	clock.Advance(3 * DefaultInterval)
	require.Equal(t, 1, sliders[0].State().Index)
}

func TestRegistryReapsUnwatchedSlidersEarly(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(2), DefaultConfig(), WithClock(clock),
		WithIdleTTL(30*time.Minute), WithUnwatchedTTL(time.Minute))
	defer r.Close()

	_, crawled, err := r.Create()
	require.NoError(t, err)
	_, viewed, err := r.Create()
	require.NoError(t, err)
	_, stop := viewed.Subscribe()
	stop()

	clock.Advance(2 * time.Minute)
	require.Equal(t, 1, r.Reap())
	require.True(t, crawled.Closed())
	require.False(t, viewed.Closed(), "a slider that was watched keeps the idle TTL")

	clock.Advance(30 * time.Minute)
	require.Equal(t, 1, r.Reap())
	require.True(t, viewed.Closed())
}

func TestRegistryEvictionSparesWatchedSliders(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(testPhotos(2), DefaultConfig(), WithClock(clock), WithMaxSliders(2))
	defer r.Close()

	_, watched, err := r.Create()
	require.NoError(t, err)
	_, stop := watched.Subscribe()
	defer stop()
	clock.Advance(time.Second)

	_, unwatched, err := r.Create()
	require.NoError(t, err)
	clock.Advance(time.Second)

	_, _, err = r.Create()
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	require.True(t, unwatched.Closed())
	require.False(t, watched.Closed())
}
