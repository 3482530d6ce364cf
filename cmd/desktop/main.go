package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/desktop"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, config.GetEnv("SPACEGAME_LOG_LEVEL", "info"), "desktop")

	cfg, err := config.Load(config.GetEnv("SPACEGAME_CONFIG", "spacegame.toml"))
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	score, err := desktop.New(cfg, logger).Run(ctx)
	if err != nil {
		logger.Fatal("game error", "err", err)
	}
	logger.Info("window closed", "score", score)
}
