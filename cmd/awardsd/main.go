package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/m3rciful/awardsbot/app"
	"github.com/m3rciful/awardsbot/core/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before os.Exit.
func run() int {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Printf("bootstrap failed: %v", err)
		return 1
	}
	defer func() {
		_ = application.Close()
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		log.Printf("run error: %v", err)
		return 1
	}
	return 0
}
