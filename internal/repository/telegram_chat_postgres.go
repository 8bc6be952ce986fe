package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futig/cbam-wizard/internal/entity"
)

// TelegramChatPostgres maps telegram chats to the calculation they drive
type TelegramChatPostgres struct {
	db *pgxpool.Pool
}

func NewTelegramChatPostgres(db *pgxpool.Pool) *TelegramChatPostgres {
	return &TelegramChatPostgres{db: db}
}

func (r *TelegramChatPostgres) Get(ctx context.Context, chatID int64) (string, error) {
	sql, args, err := builder().
		Select("calculation_id").
		From(tableTelegramChats).
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select telegram chat: %w", err)
	}

	var calculationID string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&calculationID); err != nil {
		return "", wrapErr(err, entity.ErrChatNotAttached)
	}
	return calculationID, nil
}

func (r *TelegramChatPostgres) Set(ctx context.Context, chatID int64, calculationID string) error {
	now := time.Now().UTC()
	sql, args, err := builder().
		Insert(tableTelegramChats).
		Columns("chat_id", "calculation_id", "created_at", "updated_at").
		Values(chatID, calculationID, now, now).
		Suffix(`ON CONFLICT (chat_id) DO UPDATE SET calculation_id = EXCLUDED.calculation_id, updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert telegram chat: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert telegram chat: %w", err)
	}
	return nil
}

func (r *TelegramChatPostgres) Delete(ctx context.Context, chatID int64) error {
	sql, args, err := builder().
		Delete(tableTelegramChats).
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete telegram chat: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete telegram chat: %w", err)
	}
	return nil
}
