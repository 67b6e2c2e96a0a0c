package main

import (
	"context"
	"log"
	"time"

	"go-jobinja-notifier/internal/app"
	"go-jobinja-notifier/internal/config"
	"go-jobinja-notifier/internal/trigger"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	runner, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build pipeline: %v", err)
	}
	defer runner.Close()

	r := trigger.NewRouter(func(ctx context.Context) {
		// a cron caller that hangs up must not cut the run short
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.RunTimeout)
		defer cancel()
		runner.Run(ctx)
	}, time.Now)

	log.Printf("Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
