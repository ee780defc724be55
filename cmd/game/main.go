package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	tuning := config.Default()
	if path := config.GetEnv(config.EnvTuningFile, ""); path != "" {
		t, err := config.Load(path)
		if err != nil {
			return err
		}
		tuning = t
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv(config.EnvLogFile, ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := config.NewLogger(logOut, config.GetEnv(config.EnvLogLevel, "info"))
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting local game")
	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.RunOptions{
		Tuning: tuning,
		Logger: logger,
	})
	if err != nil {
		logger.Error("game stopped", "err", err)
	}
	return err
}
