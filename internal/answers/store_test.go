package answers

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/cbam-wizard/internal/entity"
)

type fakeBackend struct {
	stored   map[entity.ID]entity.Answer
	upserts  int
	deleted  []entity.ID
	failSave error
	failList error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{stored: make(map[entity.ID]entity.Answer)}
}

func (f *fakeBackend) ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]entity.Answer, 0, len(f.stored))
	for _, a := range f.stored {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeBackend) UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error) {
	f.upserts++
	if f.failSave != nil {
		return nil, f.failSave
	}
	f.stored[answer.QuestionID] = answer
	return &answer, nil
}

func (f *fakeBackend) DeleteAnswers(ctx context.Context, calculationID entity.ID, questionIDs []entity.ID) error {
	f.deleted = append(f.deleted, questionIDs...)
	for _, id := range questionIDs {
		delete(f.stored, id)
	}
	return nil
}

func TestStore_SetIsLocalOnly(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, "1")

	assert.Equal(t, "", store.Get("10"))
	store.Set("10", Text("Pre-baked"))

	assert.Equal(t, "Pre-baked", store.Get("10"))
	assert.Zero(t, backend.upserts)
}

func TestStore_SaveIsOptimistic(t *testing.T) {
	backend := newFakeBackend()
	backend.failSave = errors.New("backend down")
	store := New(backend, "1")

	err := store.Save(context.Background(), "10", Number(decimal.NewFromInt(100)), nil)
	require.Error(t, err)
	assert.Equal(t, "100", store.Get("10"), "local value is kept")
	assert.Equal(t, "backend down", store.Err())

	backend.failSave = nil
	factorID := entity.ID("7")
	require.NoError(t, store.Save(context.Background(), "10", Number(decimal.NewFromInt(100)), &factorID))
	assert.Empty(t, store.Err())
	assert.Equal(t, &factorID, backend.stored["10"].EmissionFactorID)
}

func TestStore_DeleteForQuestionsRefetches(t *testing.T) {
	backend := newFakeBackend()
	backend.stored["10"] = entity.Answer{QuestionID: "10", ValueText: "YES"}
	backend.stored["11"] = entity.Answer{QuestionID: "11", ValueText: "80"}
	store := New(backend, "1")
	require.NoError(t, store.Fetch(context.Background()))

	store.Set("12", Text("unsaved"))
	require.NoError(t, store.DeleteForQuestions(context.Background(), []entity.ID{"11"}))

	assert.Equal(t, []entity.ID{"11"}, backend.deleted)
	assert.Equal(t, "YES", store.Get("10"))
	assert.Equal(t, "", store.Get("11"))
	assert.Equal(t, "", store.Get("12"), "store mirrors the backend after refetch")
}

func TestStore_FetchFailureKeepsValues(t *testing.T) {
	backend := newFakeBackend()
	store := New(backend, "1")
	store.Set("10", Text("kept"))

	backend.failList = errors.New("timeout")
	require.Error(t, store.Fetch(context.Background()))
	assert.Equal(t, "kept", store.Get("10"))
	assert.Equal(t, "timeout", store.Err())
}

func TestStore_ExportRestore(t *testing.T) {
	store := New(newFakeBackend(), "1")
	assert.False(t, store.Loaded())

	store.Restore(map[entity.ID]string{"10": "SLOPE", "11": "12,5"})
	assert.True(t, store.Loaded())

	v, ok := store.Value("11")
	require.True(t, ok)
	assert.Equal(t, KindNumber, v.Kind)
	assert.True(t, decimal.RequireFromString("12.5").Equal(v.Number))
	assert.Equal(t, map[entity.ID]string{"10": "SLOPE", "11": "12,5"}, store.Export())
}

func TestValue(t *testing.T) {
	assert.Equal(t, KindOption, ForQuestion(true, " GRID ").Kind)
	assert.Equal(t, "GRID", ForQuestion(true, " GRID ").String())
	assert.Equal(t, KindNumber, ForQuestion(false, "2.5").Kind)
	assert.Equal(t, KindText, ForQuestion(false, "Alumina").Kind)
	assert.True(t, Text("  ").Empty())
	assert.False(t, Option("NO").Empty())
}

func TestStore_KeepsTypedText(t *testing.T) {
	inputs := []string{"007", "100.50", "1e3", "1,000", " 42 "}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			backend := newFakeBackend()
			store := New(backend, "1")

			store.Set("10", ForQuestion(false, in))
			assert.Equal(t, in, store.Get("10"))

			require.NoError(t, store.Save(context.Background(), "10", ForQuestion(false, in), nil))
			assert.Equal(t, in, backend.stored["10"].ValueText)

			require.NoError(t, store.Fetch(context.Background()))
			assert.Equal(t, in, store.Get("10"))
			assert.Equal(t, in, store.Export()["10"])
		})
	}
}

func TestValue_NumberIsTypedRead(t *testing.T) {
	v := ForQuestion(false, "100.50")
	assert.Equal(t, KindNumber, v.Kind)
	assert.True(t, decimal.RequireFromString("100.5").Equal(v.Number))
	assert.Equal(t, "100.50", v.String())

	assert.Equal(t, "2.5", Number(decimal.RequireFromString("2.50")).String())
}
