package worker

// media_cleanup_worker.go
// Deletes storage objects left behind by removed draft images. The sidecar
// call goes through the circuit breaker; after the bounded retries the job
// lands in the DLQ for the reaper.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Verone2021/Verone-V1-sub003/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxCleanupAttempts = 3

type MediaCleanupWorker struct {
	media *infra.MediaStore
	rdb   *redis.Client
}

func NewMediaCleanupWorker(media *infra.MediaStore, rdb *redis.Client) *MediaCleanupWorker {
	return &MediaCleanupWorker{media: media, rdb: rdb}
}

func (w *MediaCleanupWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload MediaCleanupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("media_cleanup: invalid payload")
		return
	}
	if payload.StoragePath == "" {
		log.Warn().Msg("media_cleanup: empty storage_path — skipping")
		return
	}

	err := withRetry(ctx, maxCleanupAttempts, func(attempt int) error {
		if err := w.media.Delete(ctx, payload.StoragePath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("path", payload.StoragePath).
				Msg("media_cleanup: delete attempt failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueMediaCleanup, "media_cleanup", raw,
			fmt.Sprintf("max retries (%d) exceeded: %v", maxCleanupAttempts, err),
			maxCleanupAttempts)
		return
	}
	log.Info().Str("path", payload.StoragePath).Msg("media_cleanup: storage object deleted")
}
