// Package telegram wires the chat front-end of the wizard: chats are bound to
// calculations and every update drives the shared wizard use case.
package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/config"
	"github.com/futig/cbam-wizard/internal/telegram/bot"
	"github.com/futig/cbam-wizard/internal/telegram/handlers"
	"github.com/futig/cbam-wizard/internal/telegram/state"
)

var ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN is required")

type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot binds chats through storage and serves them from wizardUC.
// basePath is where a freshly attached calculation starts.
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	wizardUC handlers.WizardUsecase,
	basePath string,
	logger *zap.Logger,
) (Bot, error) {
	if cfg.BotToken == "" {
		return nil, ErrMissingBotToken
	}
	if cfg.BackendToken == "" {
		logger.Warn("TELEGRAM_BACKEND_TOKEN is empty, backend calls fall back to the service token")
	}

	b, err := bot.New(cfg, state.NewManager(storage), wizardUC, basePath, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized",
		zap.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		zap.Int("rate_limit_burst", cfg.RateLimitBurst))
	return b, nil
}
