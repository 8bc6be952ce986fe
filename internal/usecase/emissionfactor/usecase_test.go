package emissionfactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/integration/cbam"
)

type countingConnector struct {
	*cbam.MockConnector
	sectors  int
	resolves int
}

func (c *countingConnector) Sectors(ctx context.Context) ([]string, error) {
	c.sectors++
	return c.MockConnector.Sectors(ctx)
}

func (c *countingConnector) ResolveFactor(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error) {
	c.resolves++
	return c.MockConnector.ResolveFactor(ctx, q)
}

func newTestUsecase(t *testing.T) (*EmissionFactorUsecase, *countingConnector) {
	t.Helper()
	mock, err := cbam.NewMockConnector(zap.NewNop())
	require.NoError(t, err)
	conn := &countingConnector{MockConnector: mock}
	return NewUsecase(conn, time.Minute, zap.NewNop()), conn
}

var naturalGas = entity.EmissionFactorQuery{
	Sector:       "Energy",
	Subsector:    "Stationary combustion",
	Subsubsector: "Gaseous fuels",
	Name:         "Natural gas",
	Denominator:  "m3",
}

func TestList_Cascade(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()

	sectors, err := uc.List(ctx, LevelSectors, entity.EmissionFactorQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Energy"}, sectors)

	_, err = uc.List(ctx, LevelSectors, entity.EmissionFactorQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, conn.sectors, "second call is served from cache")

	subsub, err := uc.List(ctx, LevelSubsubsectors, entity.EmissionFactorQuery{Sector: "Energy", Subsector: "Stationary combustion"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaseous fuels", "Liquid fuels", "Solid fuels"}, subsub)

	q := naturalGas
	q.Denominator = ""
	denominators, err := uc.List(ctx, LevelDenominators, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"kWh", "m3"}, denominators)
}

func TestList_RequiresParents(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.List(context.Background(), LevelNames, entity.EmissionFactorQuery{Sector: "Energy"})
	require.ErrorIs(t, err, entity.ErrMissingField)
	assert.Contains(t, err.Error(), "subsubsector, subsector")

	_, err = uc.List(context.Background(), Level("fuels"), entity.EmissionFactorQuery{})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestResolve(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()

	f, err := uc.Resolve(ctx, naturalGas)
	require.NoError(t, err)
	assert.Equal(t, entity.ID("1"), f.ID)
	assert.InDelta(t, 2.06672, f.Value, 1e-9)

	f.Value = 0
	again, err := uc.Resolve(ctx, naturalGas)
	require.NoError(t, err)
	assert.InDelta(t, 2.06672, again.Value, 1e-9, "cached factor is not shared with callers")
	assert.Equal(t, 1, conn.resolves)

	_, err = uc.Resolve(ctx, entity.EmissionFactorQuery{Sector: "Energy"})
	assert.ErrorIs(t, err, entity.ErrMissingField)

	q := naturalGas
	q.Denominator = "barrels"
	_, err = uc.Resolve(ctx, q)
	assert.ErrorIs(t, err, entity.ErrFactorNotFound)
}
