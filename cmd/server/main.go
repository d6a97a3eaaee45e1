package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/api"
	"github.com/peerqa/peerqa/internal/config"
	"github.com/peerqa/peerqa/internal/observ"
	"github.com/peerqa/peerqa/internal/qa"
	"github.com/peerqa/peerqa/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// The store is entirely in-memory. One database is built at startup and
	// installed as the process-wide active instance; from here on, every
	// consumer resolves it through qa.Active() so tooling can swap the whole
	// dataset atomically.
	db := qa.NewDatabase(logger)

	hub := ws.NewHub(logger)
	db.SetNotificationSink(hub)

	qa.Activate(db)

	if cfg.Seed {
		if err := qa.Seed(db); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		logger.Info("seeded demo data",
			zap.Int("users", db.Users().Count()),
			zap.Int("questions", db.Questions().Count()),
		)
	}

	logger.Info("starting PeerQA",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	r := api.NewRouter(cfg.JWTSecret, cfg.RateLimit, cfg.RateBurst, hub, logger)
	return r.Run(":" + cfg.Port)
}
