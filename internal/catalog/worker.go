package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WarmWorker keeps the definition cache populated ahead of its TTL.
type WarmWorker struct {
	service  *Service
	interval time.Duration
	logger   zerolog.Logger
}

func NewWarmWorker(service *Service, interval time.Duration, logger zerolog.Logger) *WarmWorker {
	if interval <= 0 {
		interval = 4 * time.Minute
	}
	return &WarmWorker{
		service:  service,
		interval: interval,
		logger:   logger.With().Str("component", "catalog_warm_worker").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *WarmWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *WarmWorker) tick(ctx context.Context) {
	n, err := w.service.Warm(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("catalog warm failed")
		return
	}
	w.logger.Debug().Int("quizzes", n).Msg("catalog cache warmed")
}
