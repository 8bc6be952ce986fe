package wizard

import (
	"context"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/formatter"
)

type CBAMConnector interface {
	ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error)
	UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error)
	DeleteAnswers(ctx context.Context, calculationID entity.ID, questionIDs []entity.ID) error
	GetCalculation(ctx context.Context, calculationID entity.ID) (*entity.Calculation, error)
	UpdateCalculation(ctx context.Context, calculationID entity.ID, update entity.CalculationUpdate) (*entity.Calculation, error)
	GetResult(ctx context.Context, calculationID entity.ID) (*entity.CalculationResult, error)
}

type SessionRepository interface {
	Get(ctx context.Context, calculationID string) (*entity.WizardSession, error)
	Save(ctx context.Context, session *entity.WizardSession) error
	Delete(ctx context.Context, calculationID string) error
}

type QuestionCatalog interface {
	FetchLatest(ctx context.Context, key string, refetch bool, codes ...string) ([]entity.QuestionWithOptions, error)
}

type FactorResolver interface {
	Resolve(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error)
}

type ReportFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
