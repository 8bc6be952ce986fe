package answers

import (
	"context"
	"fmt"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Backend persists answers of a calculation
type Backend interface {
	ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error)
	UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error)
	DeleteAnswers(ctx context.Context, calculationID entity.ID, questionIDs []entity.ID) error
}

// Store is the in-memory answer map of one calculation. It is the source of truth
// for rendering; the backend is written only by Save and DeleteForQuestions.
type Store struct {
	backend       Backend
	calculationID entity.ID

	mu     sync.RWMutex
	values map[entity.ID]Value
	loaded bool
	err    string
}

func New(backend Backend, calculationID entity.ID) *Store {
	return &Store{
		backend:       backend,
		calculationID: calculationID,
		values:        make(map[entity.ID]Value),
	}
}

// Restore seeds the store with previously exported values without a backend round trip
func (s *Store) Restore(values map[entity.ID]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[entity.ID]Value, len(values))
	for id, raw := range values {
		s.values[id] = Infer(raw)
	}
	s.loaded = true
}

// Export returns the wire form of every held value
func (s *Store) Export() map[entity.ID]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[entity.ID]string, len(s.values))
	for id, v := range s.values {
		out[id] = v.String()
	}
	return out
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get returns the answer of a question or "" if unset
func (s *Store) Get(questionID entity.ID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[questionID]
	if !ok {
		return ""
	}
	return v.String()
}

func (s *Store) Value(questionID entity.ID) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[questionID]
	return v, ok
}

// Set changes the local value only
func (s *Store) Set(questionID entity.ID, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[questionID] = v
}

// Save sets the value locally and upserts it. A failed upsert is recorded in Err
// and keeps the local value.
func (s *Store) Save(ctx context.Context, questionID entity.ID, v Value, emissionFactorID *entity.ID) error {
	s.Set(questionID, v)

	_, err := s.backend.UpsertAnswer(ctx, s.calculationID, entity.Answer{
		QuestionID:       questionID,
		ValueText:        v.String(),
		EmissionFactorID: emissionFactorID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		ctxzap.Warn(ctx, "answer save failed", zap.String("question_id", questionID.String()), zap.Error(err))
		s.err = err.Error()
		return fmt.Errorf("save answer %s: %w", questionID, err)
	}
	s.err = ""
	return nil
}

// DeleteForQuestions removes the answers of exactly these questions from the backend
// and reloads the store from it
func (s *Store) DeleteForQuestions(ctx context.Context, questionIDs []entity.ID) error {
	if len(questionIDs) == 0 {
		return nil
	}

	if err := s.backend.DeleteAnswers(ctx, s.calculationID, questionIDs); err != nil {
		s.setErr(err)
		return fmt.Errorf("delete answers: %w", err)
	}

	return s.Fetch(ctx)
}

// Fetch replaces the store with the answers stored by the backend
func (s *Store) Fetch(ctx context.Context) error {
	list, err := s.backend.ListAnswers(ctx, s.calculationID)
	if err != nil {
		s.setErr(err)
		return fmt.Errorf("fetch answers: %w", err)
	}

	values := make(map[entity.ID]Value, len(list))
	for _, a := range list {
		values[a.QuestionID] = Infer(a.ValueText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
	s.loaded = true
	s.err = ""
	return nil
}

// Err is the message of the last failed backend call, "" after a successful one
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err.Error()
}
