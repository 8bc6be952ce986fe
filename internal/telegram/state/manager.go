package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Manager tracks which calculation each chat is working on
type Manager struct {
	storage Storage
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
	}
}

// Attach points the chat at a calculation, replacing any previous one
func (m *Manager) Attach(ctx context.Context, chatID int64, calculationID string) error {
	calculationID = strings.TrimSpace(calculationID)
	if calculationID == "" {
		return fmt.Errorf("%w: calculation id", entity.ErrMissingField)
	}

	if err := m.storage.Set(ctx, chatID, calculationID); err != nil {
		return fmt.Errorf("attach chat to calculation: %w", err)
	}
	return nil
}

// Calculation returns the calculation attached to the chat
func (m *Manager) Calculation(ctx context.Context, chatID int64) (string, error) {
	id, err := m.storage.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, entity.ErrChatNotAttached) {
			return "", err
		}
		return "", fmt.Errorf("get chat calculation: %w", err)
	}
	return id, nil
}

// Detach forgets the calculation of the chat
func (m *Manager) Detach(ctx context.Context, chatID int64) error {
	if err := m.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("detach chat: %w", err)
	}
	return nil
}
