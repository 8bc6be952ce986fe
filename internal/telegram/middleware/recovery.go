package middleware

import (
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const panicMessage = "❌ Something went wrong. Try again or use /view."

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	logger   *zap.Logger
	notifier Notifier
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *zap.Logger, notifier Notifier) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:   logger,
		notifier: notifier,
	}
}

// Handle recovers from panics and tells the user the update failed
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		m.logger.Error("panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())),
			zap.Int("update_id", update.UpdateID),
		)

		if _, chatID, ok := updateChat(update); ok && chatID != 0 {
			if err := m.notifier.Send(chatID, panicMessage, nil); err != nil {
				m.logger.Error("failed to send error message",
					zap.Error(err),
					zap.Int64("chat_id", chatID),
				)
			}
		}
	}()

	next(update)
}
