package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/loop/client"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(config.GetEnv("SPACEGAME_CONFIG", "spacegame.toml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// The terminal is the game, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SPACEGAME_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, config.GetEnv("SPACEGAME_LOG_LEVEL", "info"), "game")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	c := client.NewClient(os.Stdin, os.Stdout, client.Options{
		Config:  cfg,
		Logger:  logger,
		Profile: termenv.EnvColorProfile(),
	})
	score, err := c.Run(ctx)
	_ = term.Restore(fd, oldState)
	if err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Final score: %d\n", score)
}
