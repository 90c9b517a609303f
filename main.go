package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/joselinputri/anagram-arcade/internal/api"
	"github.com/joselinputri/anagram-arcade/internal/config"
	"github.com/joselinputri/anagram-arcade/internal/content"
	"github.com/joselinputri/anagram-arcade/internal/httpserver"
	"github.com/joselinputri/anagram-arcade/internal/play"
	"github.com/joselinputri/anagram-arcade/internal/queue"
	"github.com/joselinputri/anagram-arcade/internal/report"
	"os"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg := config.Load()

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	contents := content.NewClient(api.Config{BaseURL: cfg.ContentBaseURL, Timeout: cfg.UpstreamTimeout})
	reports := report.NewClient(api.Config{BaseURL: cfg.ReportBaseURL, Timeout: cfg.UpstreamTimeout})

	plays := play.NewManager(play.Config{
		CorrectDwell: cfg.CorrectDwell,
		WrongDwell:   cfg.WrongDwell,
		CheckTimeout: cfg.UpstreamTimeout,
	}, contents, play.NewMemoryStore())
	defer plays.Shutdown(context.Background())

	journal := queue.NewStore(db)
	worker := queue.NewWorker(journal, reports, cfg.RetryInterval, cfg.RetryMaxAttempts)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.Run(workerCtx)

	srv := httpserver.New(plays, reports, journal, cfg.JWTSecret, cfg.ClientOrigin)
	log.Info().Str("port", cfg.Port).
		Str("content", cfg.ContentBaseURL).Str("report", cfg.ReportBaseURL).
		Msg("starting anagram-arcade")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
