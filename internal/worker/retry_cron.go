package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues notifications stuck in
// estado='error' with a next_retry_at in the past. Uses the Circuit Breaker to
// avoid hammering a downed SMTP server.

import (
	"context"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/infra"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	NotificacionRepo repository.NotificacionRepository
	Dispatcher       *Dispatcher
	CB               *infra.CircuitBreaker
	RDB              *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s, queries
// due notification retries, and re-enqueues them for the worker pool. It
// respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed SMTP server
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	pendientes, err := cfg.NotificacionRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(pendientes) == 0 {
		return
	}

	for _, n := range pendientes {
		payload := NotificacionJobPayload{NotificacionID: n.ID.String()}
		if err := cfg.Dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("id", n.ID.String()).Msg("retry_cron: failed to re-enqueue")
		}
	}
	log.Info().Int("count", len(pendientes)).Msg("retry_cron: re-enqueued failed notifications")
}
