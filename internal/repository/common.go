package repository

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	tableWizardSessions = "wizard_sessions"
	tableTelegramChats  = "telegram_chats"
)

var wizardSessionColumns = []string{
	"calculation_id", "state_data", "fuel_rows", "precursor_rows", "answers", "created_at", "updated_at",
}

// builder returns a squirrel statement builder with postgres placeholders
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func wrapErr(err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
