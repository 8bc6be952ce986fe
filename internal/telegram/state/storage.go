package state

import (
	"context"
)

// Storage maps a Telegram chat to the calculation it drives.
// Get returns entity.ErrChatNotAttached for unknown chats.
type Storage interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, calculationID string) error
	Delete(ctx context.Context, chatID int64) error
}
