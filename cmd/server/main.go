package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/config"
	"github.com/Verone2021/Verone-V1-sub003/internal/infra"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"
	"github.com/Verone2021/Verone-V1-sub003/internal/router"
	"github.com/Verone2021/Verone-V1-sub003/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mediaCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	media := infra.NewMediaStore(cfg.MediaSidecarURL, cfg.MediaPublicBaseURL, mediaCB)
	mailer := infra.NewMailer(cfg)

	sampleOrderRepo := repository.NewSampleOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueNotification,
		worker.NewNotificationWorker(sampleOrderRepo, userRepo, mailer, cfg.PDFStoragePath, cfg.ApprovalEmail))
	pool.Register(worker.QueueMediaCleanup,
		worker.NewMediaCleanupWorker(media, rdb))
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartDLQReaper(ctx, worker.ReaperConfig{RDB: rdb, CB: mediaCB})

	r := router.New(cfg, db, rdb, media)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Verone back office listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
