package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/pkg/clockx"
)

const (
	// DefaultSweepInterval is how often expired challenges are cleared when
	// the app does not override it.
	DefaultSweepInterval = 5 * time.Minute

	// DefaultSweepGrace keeps a freshly expired challenge in place so a late
	// verify still answers with the expiry reason instead of looking like no
	// code was ever issued.
	DefaultSweepGrace = time.Hour
)

// Housekeeper periodically nulls out challenge fields whose expiry has
// passed. Verification checks expiry itself, so the sweep is hygiene for the
// table, not a correctness mechanism.
type Housekeeper struct {
	Store    store.Store
	Clock    clockx.Clock
	Interval time.Duration
	Logger   *slog.Logger

	// Grace falls back to DefaultSweepGrace when zero. Only challenges
	// expired for longer than this are removed.
	Grace time.Duration

	stop chan struct{}
	done chan struct{}
}

// Start launches the sweep loop in its own goroutine.
func (h *Housekeeper) Start() {
	h.stop = make(chan struct{})
	h.done = make(chan struct{})

	interval := h.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				h.sweep()
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it.
func (h *Housekeeper) Stop() {
	if h.stop == nil {
		return
	}
	close(h.stop)
	<-h.done
}

func (h *Housekeeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := clockx.System{}.Now()
	if h.Clock != nil {
		now = h.Clock.Now()
	}

	grace := h.Grace
	if grace <= 0 {
		grace = DefaultSweepGrace
	}

	if err := h.Store.Accounts().DeleteExpiredChallenges(ctx, now.Add(-grace)); err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(ctx, "challenge sweep failed", slog.Any("error", err))
		}
	}
}
