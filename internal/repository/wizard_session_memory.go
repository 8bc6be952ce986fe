package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/futig/cbam-wizard/internal/entity"
)

// WizardSessionMemory keeps sessions in process memory; they expire after ttl without writes
type WizardSessionMemory struct {
	cache *cache.Cache
}

func NewWizardSessionMemory(ttl time.Duration) *WizardSessionMemory {
	return &WizardSessionMemory{cache: cache.New(ttl, ttl/2+time.Minute)}
}

func (r *WizardSessionMemory) Get(ctx context.Context, calculationID string) (*entity.WizardSession, error) {
	v, ok := r.cache.Get(calculationID)
	if !ok {
		return nil, entity.ErrWizardNotOpened
	}
	session := clone(v.(*entity.WizardSession))
	return session, nil
}

func (r *WizardSessionMemory) Save(ctx context.Context, session *entity.WizardSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	r.cache.SetDefault(session.CalculationID, clone(session))
	return nil
}

func (r *WizardSessionMemory) Delete(ctx context.Context, calculationID string) error {
	r.cache.Delete(calculationID)
	return nil
}

func (r *WizardSessionMemory) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for id, item := range r.cache.Items() {
		if s, ok := item.Object.(*entity.WizardSession); ok && s.UpdatedAt.Before(before) {
			r.cache.Delete(id)
			n++
		}
	}
	return n, nil
}

// clone copies a session so callers never share slices or maps with the cache
func clone(s *entity.WizardSession) *entity.WizardSession {
	out := *s
	out.StateData = append([]byte(nil), s.StateData...)
	out.FuelRows = append([]entity.FuelEntry(nil), s.FuelRows...)
	out.PrecursorRows = append([]entity.PrecursorEntry(nil), s.PrecursorRows...)
	if s.Answers != nil {
		out.Answers = make(map[entity.ID]string, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = v
		}
	}
	return &out
}
