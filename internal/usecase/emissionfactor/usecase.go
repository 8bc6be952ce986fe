package emissionfactor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Level is one selector of the sector -> denominator cascade
type Level string

const (
	LevelSectors       Level = "sectors"
	LevelSubsectors    Level = "subsectors"
	LevelSubsubsectors Level = "subsubsectors"
	LevelNames         Level = "names"
	LevelDenominators  Level = "denominators"
)

// EmissionFactorUsecase serves the emission factor cascade. The lists are the same
// for every user, so they are cached; resolved factors are cached too.
type EmissionFactorUsecase struct {
	connector CBAMConnector
	cache     *cache.Cache
	logger    *zap.Logger
}

func NewUsecase(connector CBAMConnector, ttl time.Duration, logger *zap.Logger) *EmissionFactorUsecase {
	return &EmissionFactorUsecase{
		connector: connector,
		cache:     cache.New(ttl, 2*ttl+time.Minute),
		logger:    logger,
	}
}

// List returns the options of a cascade level given the selectors above it
func (uc *EmissionFactorUsecase) List(ctx context.Context, level Level, q entity.EmissionFactorQuery) ([]string, error) {
	if err := requireParents(level, q); err != nil {
		return nil, err
	}

	key := cacheKey(string(level), q)
	if v, ok := uc.cache.Get(key); ok {
		return v.([]string), nil
	}

	var (
		list []string
		err  error
	)
	switch level {
	case LevelSectors:
		list, err = uc.connector.Sectors(ctx)
	case LevelSubsectors:
		list, err = uc.connector.Subsectors(ctx, q.Sector)
	case LevelSubsubsectors:
		list, err = uc.connector.Subsubsectors(ctx, q.Sector, q.Subsector)
	case LevelNames:
		list, err = uc.connector.Names(ctx, q)
	case LevelDenominators:
		list, err = uc.connector.Denominators(ctx, q)
	default:
		return nil, fmt.Errorf("%w: level %q", entity.ErrInvalidParameter, level)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", level, err)
	}

	if list == nil {
		list = []string{}
	}
	uc.cache.SetDefault(key, list)
	ctxzap.Debug(ctx, "emission factor list loaded", zap.String("level", string(level)), zap.Int("count", len(list)))
	return list, nil
}

// Resolve returns the single factor selected by a complete query
func (uc *EmissionFactorUsecase) Resolve(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error) {
	if !q.Complete() {
		return nil, fmt.Errorf("%w: sector, subsector, subsubsector, name and denominator", entity.ErrMissingField)
	}

	key := cacheKey("resolve", q)
	if v, ok := uc.cache.Get(key); ok {
		f := *v.(*entity.EmissionFactor)
		return &f, nil
	}

	f, err := uc.connector.ResolveFactor(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("resolve emission factor: %w", err)
	}

	stored := *f
	uc.cache.SetDefault(key, &stored)
	return f, nil
}

func requireParents(level Level, q entity.EmissionFactorQuery) error {
	var missing []string
	switch level {
	case LevelDenominators:
		if q.Name == "" {
			missing = append(missing, "name")
		}
		fallthrough
	case LevelNames:
		if q.Subsubsector == "" {
			missing = append(missing, "subsubsector")
		}
		fallthrough
	case LevelSubsubsectors:
		if q.Subsector == "" {
			missing = append(missing, "subsector")
		}
		fallthrough
	case LevelSubsectors:
		if q.Sector == "" {
			missing = append(missing, "sector")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func cacheKey(level string, q entity.EmissionFactorQuery) string {
	return strings.Join([]string{level, q.Sector, q.Subsector, q.Subsubsector, q.Name, q.Denominator}, "\x1f")
}
