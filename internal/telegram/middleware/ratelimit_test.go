package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNotifier) Send(_ int64, text string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func messageUpdate(userID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: "hi",
	}}
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	notifier := &recordingNotifier{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), notifier)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	for i := 0; i < 3; i++ {
		rl.Handle(messageUpdate(1), next)
	}
	assert.Equal(t, 2, handled, "burst of two")
	assert.Len(t, notifier.texts, 1, "one warning")

	rl.Handle(messageUpdate(2), next)
	assert.Equal(t, 3, handled, "other users have their own bucket")

	now = now.Add(time.Second)
	rl.Handle(messageUpdate(1), next)
	assert.Equal(t, 4, handled, "one token per second refilled")
}

func TestRecovery_NotifiesChat(t *testing.T) {
	notifier := &recordingNotifier{}
	m := NewRecoveryMiddleware(zap.NewNop(), notifier)

	assert.NotPanics(t, func() {
		m.Handle(messageUpdate(7), func(tgbotapi.Update) { panic("boom") })
	})
	assert.Equal(t, []string{panicMessage}, notifier.texts)
}
