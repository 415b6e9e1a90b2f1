package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ViewBuffer holds product views not yet written to the database.
type ViewBuffer interface {
	Drain(ctx context.Context) (map[string]int64, error)
	Restore(ctx context.Context, counts map[string]int64) error
}

// ViewStore persists view counts.
type ViewStore interface {
	AddViews(ctx context.Context, views map[string]int64) error
}

// ListingInvalidator drops cached listings.
type ListingInvalidator interface {
	Invalidate(ctx context.Context)
}

// ViewFlushWorker periodically moves buffered product views into Postgres.
type ViewFlushWorker struct {
	buffer   ViewBuffer
	store    ViewStore
	listings ListingInvalidator
	interval time.Duration
}

// NewViewFlushWorker constructs a ViewFlushWorker. listings may be nil.
func NewViewFlushWorker(buffer ViewBuffer, store ViewStore, listings ListingInvalidator, interval time.Duration) *ViewFlushWorker {
	return &ViewFlushWorker{
		buffer:   buffer,
		store:    store,
		listings: listings,
		interval: interval,
	}
}

// Start begins the periodic flush loop until context is canceled. A final
// flush runs on shutdown.
func (w *ViewFlushWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting view flush worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.run(flushCtx)
			cancel()
			log.Info().Msg("View flush worker stopped")
			return
		}
	}
}

func (w *ViewFlushWorker) run(ctx context.Context) {
	counts, err := w.buffer.Drain(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to drain view counters")
	}
	if len(counts) == 0 {
		return
	}

	if err := w.store.AddViews(ctx, counts); err != nil {
		log.Error().Err(err).Int("products", len(counts)).Msg("Failed to persist views")
		if err := w.buffer.Restore(ctx, counts); err != nil {
			log.Error().Err(err).Msg("Failed to restore view counters, views lost")
		}
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	log.Debug().Int("products", len(counts)).Int64("views", total).Msg("Views flushed")

	if w.listings != nil {
		w.listings.Invalidate(ctx)
	}
}
