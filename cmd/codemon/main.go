// Package main runs the Codemon battle simulator in the terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()
	app, cleanup, err := InitializeApp(ctx, ConfigPath(*configPath), os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("initializing: %v", err)
	}

	app.Logger.Info("codemon initialized",
		zap.String("dex_source", app.Config.Dex.Source),
		zap.String("storage_driver", app.Config.Storage.Driver),
		zap.Int("starting_level", app.Config.Battle.StartingLevel),
		zap.Duration("startup", time.Since(start)),
	)

	lifecycle := server.NewLifecycle(app.Logger)
	lifecycle.OnStop("resources", func() error {
		cleanup()
		return nil
	})
	if err := lifecycle.Run(ctx, "shell", app.Shell.Run); err != nil {
		log.Printf("codemon: %v", err)
		os.Exit(1)
	}
}
