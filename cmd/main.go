package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yatube/config"
	"yatube/internal/app"
	"yatube/pkg/logger"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.LoadConfig()

	log := logger.New(os.Stderr, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := app.Migrate(ctx, cfg); err != nil {
				log.Error("migration failed", "error", err)
				os.Exit(1)
			}
			return
		default:
			log.Error("unknown command", "command", os.Args[1])
			os.Exit(2)
		}
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("init failed", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
