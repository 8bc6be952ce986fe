package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/logger"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// onScreen loads the wizard and checks that it shows the given screen
func (uc *WizardUsecase) onScreen(ctx context.Context, calculationID string, screen wz.Screen) (*wizardSession, error) {
	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	if ws.state.Screen() != screen {
		return nil, fmt.Errorf("%w: rows are edited on %s, wizard is on %s", entity.ErrUnsupportedInput, screen, ws.state.Screen())
	}
	return ws, nil
}

func (uc *WizardUsecase) commit(ctx context.Context, ws *wizardSession) (*entity.WizardView, error) {
	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// AddFuelRow appends a fuel row to step 5
func (uc *WizardUsecase) AddFuelRow(ctx context.Context, calculationID string, req *entity.FuelRowRequest) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "add_fuel_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenFuelInput)
	if err != nil {
		return nil, err
	}

	row := entity.FuelEntry{ID: uuid.New().String()}
	if err := uc.applyFuel(ctx, &row, req); err != nil {
		return nil, err
	}
	ws.record.FuelRows = append(ws.record.FuelRows, row)

	return uc.commit(ctx, ws)
}

// UpdateFuelRow changes a fuel row; changing a selector clears the selectors below it
func (uc *WizardUsecase) UpdateFuelRow(ctx context.Context, calculationID, rowID string, req *entity.FuelRowRequest) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "update_fuel_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenFuelInput)
	if err != nil {
		return nil, err
	}

	i := fuelIndex(ws.record.FuelRows, rowID)
	if i < 0 {
		return nil, fmt.Errorf("%w: fuel row %s", entity.ErrRowNotFound, rowID)
	}

	row := ws.record.FuelRows[i]
	if err := uc.applyFuel(ctx, &row, req); err != nil {
		return nil, err
	}
	ws.record.FuelRows[i] = row

	return uc.commit(ctx, ws)
}

func (uc *WizardUsecase) DeleteFuelRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "delete_fuel_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenFuelInput)
	if err != nil {
		return nil, err
	}

	i := fuelIndex(ws.record.FuelRows, rowID)
	if i < 0 {
		return nil, fmt.Errorf("%w: fuel row %s", entity.ErrRowNotFound, rowID)
	}
	ws.record.FuelRows = append(ws.record.FuelRows[:i], ws.record.FuelRows[i+1:]...)

	return uc.commit(ctx, ws)
}

func fuelIndex(rows []entity.FuelEntry, id string) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// applyFuel merges req into row and resolves the emission factor once all five selectors are set
func (uc *WizardUsecase) applyFuel(ctx context.Context, row *entity.FuelEntry, req *entity.FuelRowRequest) error {
	if req.Amount != nil {
		amount := strings.TrimSpace(*req.Amount)
		if _, ok := wz.ParseAmount(amount); amount != "" && !ok {
			return fmt.Errorf("%w: amount %q", entity.ErrInvalidFormat, amount)
		}
		row.Amount = amount
	}

	// each selector narrows the next one, so a change invalidates everything below it
	selectors := []struct {
		dst *string
		src *string
	}{
		{&row.Sector, req.Sector},
		{&row.Subsector, req.Subsector},
		{&row.Subsubsector, req.Subsubsector},
		{&row.EmissionFactorName, req.EmissionFactorName},
		{&row.Denominator, req.Denominator},
	}
	changed := false
	for i, s := range selectors {
		if s.src == nil {
			continue
		}
		v := strings.TrimSpace(*s.src)
		if *s.dst == v {
			continue
		}
		*s.dst = v
		changed = true
		for _, below := range selectors[i+1:] {
			if below.src == nil {
				*below.dst = ""
			}
		}
	}

	if changed {
		row.EmissionFactorID = nil
		row.EmissionFactorValue = nil
		row.EmissionFactorUnit = ""
		row.LookupError = ""
	}

	if !row.Query().Complete() || row.EmissionFactorID != nil {
		return nil
	}

	f, err := uc.factors.Resolve(ctx, row.Query())
	if err != nil {
		if expired(err) {
			return err
		}
		ctxzap.Warn(ctx, "emission factor lookup failed", zap.String("row_id", row.ID), zap.Error(err))
		row.LookupError = err.Error()
		return nil
	}

	id, value := f.ID, f.Value
	row.EmissionFactorID = &id
	row.EmissionFactorValue = &value
	row.EmissionFactorUnit = f.Unit
	row.LookupError = ""
	return nil
}

// AddPrecursorRow appends a purchased precursor row to step 9
func (uc *WizardUsecase) AddPrecursorRow(ctx context.Context, calculationID string, req *entity.PrecursorRowRequest) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "add_precursor_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenPrecursorInput)
	if err != nil {
		return nil, err
	}

	row := entity.PrecursorEntry{ID: uuid.New().String()}
	if err := applyPrecursor(&row, req); err != nil {
		return nil, err
	}
	ws.record.PrecursorRows = append(ws.record.PrecursorRows, row)

	return uc.commit(ctx, ws)
}

func (uc *WizardUsecase) UpdatePrecursorRow(ctx context.Context, calculationID, rowID string, req *entity.PrecursorRowRequest) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "update_precursor_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenPrecursorInput)
	if err != nil {
		return nil, err
	}

	i := precursorIndex(ws.record.PrecursorRows, rowID)
	if i < 0 {
		return nil, fmt.Errorf("%w: precursor row %s", entity.ErrRowNotFound, rowID)
	}

	row := ws.record.PrecursorRows[i]
	if err := applyPrecursor(&row, req); err != nil {
		return nil, err
	}
	ws.record.PrecursorRows[i] = row

	return uc.commit(ctx, ws)
}

func (uc *WizardUsecase) DeletePrecursorRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "delete_precursor_row")

	ws, err := uc.onScreen(ctx, calculationID, wz.ScreenPrecursorInput)
	if err != nil {
		return nil, err
	}

	i := precursorIndex(ws.record.PrecursorRows, rowID)
	if i < 0 {
		return nil, fmt.Errorf("%w: precursor row %s", entity.ErrRowNotFound, rowID)
	}
	ws.record.PrecursorRows = append(ws.record.PrecursorRows[:i], ws.record.PrecursorRows[i+1:]...)

	return uc.commit(ctx, ws)
}

func precursorIndex(rows []entity.PrecursorEntry, id string) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func applyPrecursor(row *entity.PrecursorEntry, req *entity.PrecursorRowRequest) error {
	if req.Vrsta != nil {
		row.Vrsta = strings.TrimSpace(*req.Vrsta)
	}
	for _, f := range []struct {
		name string
		dst  *string
		src  *string
	}{
		{"kolicina", &row.Kolicina, req.Kolicina},
		{"ugradjeneEmisije", &row.UgradjeneEmisije, req.UgradjeneEmisije},
	} {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if _, ok := wz.ParseAmount(v); v != "" && !ok {
			return fmt.Errorf("%w: %s %q", entity.ErrInvalidFormat, f.name, v)
		}
		*f.dst = v
	}
	return nil
}
