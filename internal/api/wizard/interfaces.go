package wizard

import (
	"context"

	"github.com/futig/cbam-wizard/internal/entity"
	wizarduc "github.com/futig/cbam-wizard/internal/usecase/wizard"
)

type WizardUsecase interface {
	Open(ctx context.Context, calculationID, path string) (*entity.WizardView, error)
	View(ctx context.Context, calculationID string) (*entity.WizardView, error)
	Refetch(ctx context.Context, calculationID string) (*entity.WizardView, error)
	Edit(ctx context.Context, calculationID string, req *entity.EditWizardRequest) (*entity.WizardView, error)
	SetAnswer(ctx context.Context, calculationID string, questionID entity.ID, value string) (*entity.WizardView, error)
	Next(ctx context.Context, calculationID string) (*entity.WizardView, error)
	Back(ctx context.Context, calculationID string) (*entity.WizardView, error)

	AddFuelRow(ctx context.Context, calculationID string, req *entity.FuelRowRequest) (*entity.WizardView, error)
	UpdateFuelRow(ctx context.Context, calculationID, rowID string, req *entity.FuelRowRequest) (*entity.WizardView, error)
	DeleteFuelRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error)
	AddPrecursorRow(ctx context.Context, calculationID string, req *entity.PrecursorRowRequest) (*entity.WizardView, error)
	UpdatePrecursorRow(ctx context.Context, calculationID, rowID string, req *entity.PrecursorRowRequest) (*entity.WizardView, error)
	DeletePrecursorRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error)

	Result(ctx context.Context, calculationID string) (*entity.CalculationResult, error)
	Report(ctx context.Context, calculationID string, format entity.ResultFormat) (*wizarduc.Report, error)
}
