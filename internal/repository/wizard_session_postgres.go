package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futig/cbam-wizard/internal/entity"
)

// WizardSessionPostgres persists wizard positions and unsaved rows per calculation
type WizardSessionPostgres struct {
	db *pgxpool.Pool
}

func NewWizardSessionPostgres(db *pgxpool.Pool) *WizardSessionPostgres {
	return &WizardSessionPostgres{db: db}
}

// Get returns the session of a calculation or entity.ErrWizardNotOpened
func (r *WizardSessionPostgres) Get(ctx context.Context, calculationID string) (*entity.WizardSession, error) {
	sql, args, err := builder().
		Select(wizardSessionColumns...).
		From(tableWizardSessions).
		Where(squirrel.Eq{"calculation_id": calculationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select wizard session: %w", err)
	}

	var (
		session                              entity.WizardSession
		stateData, fuelRows, precursors, ans []byte
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&session.CalculationID,
		&stateData,
		&fuelRows,
		&precursors,
		&ans,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(err, entity.ErrWizardNotOpened)
	}

	session.StateData = json.RawMessage(stateData)
	if err := unmarshalColumn(fuelRows, &session.FuelRows); err != nil {
		return nil, fmt.Errorf("decode fuel rows: %w", err)
	}
	if err := unmarshalColumn(precursors, &session.PrecursorRows); err != nil {
		return nil, fmt.Errorf("decode precursor rows: %w", err)
	}
	if err := unmarshalColumn(ans, &session.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	return &session, nil
}

// Save upserts the session
func (r *WizardSessionPostgres) Save(ctx context.Context, session *entity.WizardSession) error {
	stateData := session.StateData
	if len(stateData) == 0 {
		stateData = json.RawMessage("{}")
	}

	fuelRows, err := marshalColumn(session.FuelRows, "[]")
	if err != nil {
		return fmt.Errorf("encode fuel rows: %w", err)
	}
	precursors, err := marshalColumn(session.PrecursorRows, "[]")
	if err != nil {
		return fmt.Errorf("encode precursor rows: %w", err)
	}
	var ans []byte
	if session.Answers != nil {
		if ans, err = json.Marshal(session.Answers); err != nil {
			return fmt.Errorf("encode answers: %w", err)
		}
	}

	now := time.Now().UTC()
	sql, args, err := builder().
		Insert(tableWizardSessions).
		Columns(wizardSessionColumns...).
		Values(session.CalculationID, []byte(stateData), fuelRows, precursors, ans, now, now).
		Suffix(`ON CONFLICT (calculation_id) DO UPDATE SET
			state_data = EXCLUDED.state_data,
			fuel_rows = EXCLUDED.fuel_rows,
			precursor_rows = EXCLUDED.precursor_rows,
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert wizard session: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert wizard session: %w", err)
	}

	session.UpdatedAt = now
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	return nil
}

func (r *WizardSessionPostgres) Delete(ctx context.Context, calculationID string) error {
	sql, args, err := builder().
		Delete(tableWizardSessions).
		Where(squirrel.Eq{"calculation_id": calculationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete wizard session: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete wizard session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions untouched since before the cutoff
func (r *WizardSessionPostgres) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	sql, args, err := builder().
		Delete(tableWizardSessions).
		Where(squirrel.Lt{"updated_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func marshalColumn(v any, empty string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte(empty), nil
	}
	return data, nil
}

func unmarshalColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
