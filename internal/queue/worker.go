// internal/queue/worker.go
//
// Background retry loop for the result journal.

package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joselinputri/anagram-arcade/internal/api"
	"github.com/joselinputri/anagram-arcade/internal/report"
)

// Worker periodically replays queued submissions upstream.
type Worker struct {
	store       *Store
	reporter    report.Reporter
	interval    time.Duration
	maxAttempts int
}

// NewWorker builds a worker. interval <= 0 defaults to 30s, maxAttempts <= 0
// to 10.
func NewWorker(store *Store, reporter report.Reporter, interval time.Duration, maxAttempts int) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Worker{store: store, reporter: reporter, interval: interval, maxAttempts: maxAttempts}
}

// Run flushes the queue on a fixed interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Flush(ctx)
		}
	}
}

// Flush attempts delivery of every due submission once.
func (w *Worker) Flush(ctx context.Context) {
	items, err := w.store.Due(ctx, 50)
	if err != nil {
		log.Error().Err(err).Msg("read result queue")
		return
	}
	for _, it := range items {
		rctx := api.WithToken(ctx, it.Token)
		if _, err := w.reporter.SubmitResult(rctx, it.GameID, it.Result); err != nil {
			if it.Attempts+1 >= w.maxAttempts {
				log.Warn().Err(err).Int64("id", it.ID).Str("gameId", it.GameID).
					Int("attempts", it.Attempts+1).Msg("abandoning queued result")
				_ = w.store.Abandon(ctx, it.ID, err.Error())
			} else {
				log.Warn().Err(err).Int64("id", it.ID).Str("gameId", it.GameID).Msg("result retry failed")
				_ = w.store.MarkFailed(ctx, it.ID, err.Error())
			}
			continue
		}
		log.Info().Int64("id", it.ID).Str("gameId", it.GameID).Msg("queued result delivered")
		_ = w.store.MarkDone(ctx, it.ID)
	}
}
