package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aouyang1/portfolio/slideshow"
)

const reapInterval = time.Minute

// ReapManager periodically closes sliders whose page went away without
// sending a close request.
type ReapManager struct {
	registry *slideshow.Registry
	interval time.Duration
}

func NewReapManager(registry *slideshow.Registry) (*ReapManager, error) {
	if registry == nil {
		return nil, errors.New("no slider registry provided for reaper")
	}

	return &ReapManager{
		registry: registry,
		interval: reapInterval,
	}, nil
}

func (m *ReapManager) reap() int {
	reaped := m.registry.Reap()
	if reaped > 0 {
		slog.Info("reaped idle sliders", "count", reaped, "live", m.registry.Len())
	}
	return reaped
}

func (m *ReapManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.reap()
		}
	}
}
