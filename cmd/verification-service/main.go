package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/config"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/bootstrap"
)

func main() {
	cfg := config.Load()

	lg, err := logger.NewLoggerWithOptions("verification-service", cfg.Service.LogLevel, cfg.Service.LogDir)
	if err != nil {
		log.Fatalln("failed to create logger:", err)
	}
	defer lg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap.Run(ctx, cfg, lg)
}
