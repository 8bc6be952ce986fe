package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/builder"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("Telegram bot error: ", err)
	}
}

func run() error {
	bot, logger, cleanup, err := builder.BuildTelegramBot()
	if err != nil {
		return fmt.Errorf("build telegram bot: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		return fmt.Errorf("start telegram bot: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
		return err
	}
	logger.Info("telegram bot stopped gracefully")
	return nil
}
