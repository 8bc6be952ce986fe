package cbam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
)

func TestMockConnector_Catalog(t *testing.T) {
	m, err := NewMockConnector(zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	questions, err := m.QuestionsByStep(ctx, "ALU_FLUE_GAS_INPUT")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	options, err := m.OptionsByQuestion(ctx, questions[1].ID)
	require.NoError(t, err)
	assert.Len(t, options, 2)

	_, err = m.OptionsByQuestion(ctx, "nope")
	assert.ErrorIs(t, err, entity.ErrQuestionNotFound)

	factor, err := m.ResolveFactor(ctx, entity.EmissionFactorQuery{
		Sector: "Energy", Subsector: "Stationary combustion", Subsubsector: "Gaseous fuels",
		Name: "Natural gas", Denominator: "m3",
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.06672, factor.Value, 1e-9)

	names, err := m.Names(ctx, entity.EmissionFactorQuery{Sector: "Energy", Subsector: "Stationary combustion", Subsubsector: "Liquid fuels"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Diesel", "Fuel oil"}, names)
}

func TestMockConnector_SubmitCompletes(t *testing.T) {
	m, err := NewMockConnector(zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.GetResult(ctx, "7")
	require.ErrorIs(t, err, entity.ErrNotComplete)

	factorID := entity.ID("1")
	_, err = m.UpsertAnswer(ctx, "7", entity.Answer{QuestionID: "501", ValueText: "100", EmissionFactorID: &factorID})
	require.NoError(t, err)

	calc, err := m.UpdateCalculation(ctx, "7", entity.CalculationUpdate{Status: entity.CalculationStatusSubmitted})
	require.NoError(t, err)
	assert.Equal(t, entity.CalculationStatusCompleted, calc.Status)

	result, err := m.GetResult(ctx, "7")
	require.NoError(t, err)
	assert.InDelta(t, 0.206672, result.TotalEmissions, 1e-9)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "Natural gas", result.Lines[0].Source)
}
