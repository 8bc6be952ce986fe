package emissionfactor

import (
	"context"

	"github.com/futig/cbam-wizard/internal/entity"
	efuc "github.com/futig/cbam-wizard/internal/usecase/emissionfactor"
)

type EmissionFactorUsecase interface {
	List(ctx context.Context, level efuc.Level, q entity.EmissionFactorQuery) ([]string, error)
	Resolve(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error)
}
