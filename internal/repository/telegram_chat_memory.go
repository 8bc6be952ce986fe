package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/futig/cbam-wizard/internal/entity"
)

type TelegramChatMemory struct {
	cache *cache.Cache
}

func NewTelegramChatMemory(ttl time.Duration) *TelegramChatMemory {
	return &TelegramChatMemory{cache: cache.New(ttl, ttl/2+time.Minute)}
}

func (r *TelegramChatMemory) Get(ctx context.Context, chatID int64) (string, error) {
	v, ok := r.cache.Get(chatKey(chatID))
	if !ok {
		return "", entity.ErrChatNotAttached
	}
	return v.(string), nil
}

func (r *TelegramChatMemory) Set(ctx context.Context, chatID int64, calculationID string) error {
	r.cache.SetDefault(chatKey(chatID), calculationID)
	return nil
}

func (r *TelegramChatMemory) Delete(ctx context.Context, chatID int64) error {
	r.cache.Delete(chatKey(chatID))
	return nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
