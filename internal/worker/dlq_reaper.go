package worker

// dlq_reaper.go
// Background goroutine that periodically drains the media-cleanup DLQ back
// into its origin queue so orphaned storage objects eventually get deleted.
// Uses the Circuit Breaker to avoid hammering a downed media sidecar.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	reaperTickInterval = 5 * time.Minute
	reaperBatchSize    = 10
)

// ReaperConfig holds all dependencies for the DLQ reaper goroutine.
type ReaperConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartDLQReaper launches a background goroutine that ticks every 5 minutes
// and re-enqueues up to reaperBatchSize dead media-cleanup jobs.
// It respects the context for graceful shutdown.
func StartDLQReaper(ctx context.Context, cfg ReaperConfig) {
	go func() {
		ticker := time.NewTicker(reaperTickInterval)
		defer ticker.Stop()

		log.Info().Msg("dlq_reaper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("dlq_reaper: shutting down")
				return
			case <-ticker.C:
				reapMediaCleanup(ctx, cfg)
			}
		}
	}()
}

func reapMediaCleanup(ctx context.Context, cfg ReaperConfig) {
	// If CB is open, skip entirely — don't hammer a downed sidecar
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("dlq_reaper: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueMediaCleanup
	for i := 0; i < reaperBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty queue or Redis down
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("dlq_reaper: invalid DLQ entry — dropping")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("dlq_reaper: failed to marshal job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("dlq_reaper: failed to re-enqueue")
			return
		}
		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("type", entry.JobType).
			Int("previous_attempts", entry.Attempts).
			Msg("dlq_reaper: job re-enqueued")
	}
}
