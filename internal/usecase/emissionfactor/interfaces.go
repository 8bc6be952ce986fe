package emissionfactor

import (
	"context"

	"github.com/futig/cbam-wizard/internal/entity"
)

type CBAMConnector interface {
	Sectors(ctx context.Context) ([]string, error)
	Subsectors(ctx context.Context, sector string) ([]string, error)
	Subsubsectors(ctx context.Context, sector, subsector string) ([]string, error)
	Names(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error)
	Denominators(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error)
	ResolveFactor(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error)
}
