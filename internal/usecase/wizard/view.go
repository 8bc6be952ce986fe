package wizard

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/entity"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// stepData is what the current screen shows besides its state
type stepData struct {
	codes wz.StepCodes
	// all holds every question of the step codes, questions the rendered subset
	all        []entity.QuestionWithOptions
	questions  []entity.QuestionWithOptions
	catalogErr error
	form       wz.Form
	facts      wz.Facts
	byCode     func(code string) string
}

// step loads the questions of the current screen and derives its form and advance facts
func (uc *WizardUsecase) step(ctx context.Context, ws *wizardSession, refetch bool) (*stepData, error) {
	sd := &stepData{codes: uc.router.StepCodes(ws.state)}

	if len(sd.codes) > 0 {
		questions, err := uc.catalog.FetchLatest(ctx, ws.record.CalculationID, refetch, sd.codes...)
		switch {
		case errors.Is(err, catalog.ErrSuperseded), expired(err):
			return nil, err
		case err != nil:
			ctxzap.Warn(ctx, "step questions not loaded", zap.Strings("step_codes", sd.codes), zap.Error(err))
			sd.catalogErr = err
		default:
			sd.all = questions
		}
	}

	sd.byCode = func(code string) string {
		q, ok := wz.FindQuestion(sd.all, code)
		if !ok {
			return ""
		}
		return ws.store.Get(q.ID)
	}

	switch ws.state.(type) {
	case wz.AnodeInput:
		sd.questions = wz.AnodeQuestions(sd.all, uc.anodeType(sd))
	case wz.PrecursorInput:
		sd.questions = wz.WithoutCodes(sd.all, wz.QuestionPrecursorList)
	default:
		if wz.RendersForm(ws.state) {
			sd.questions = sd.all
		}
	}

	sd.form = wz.BuildForm(sd.questions, ws.store.Get)
	sd.facts = wz.Facts{
		FormComplete:      sd.catalogErr == nil && sd.form.CanAdvance,
		FuelRowsComplete:  wz.FuelRowsComplete(ws.record.FuelRows),
		PFCMethod:         wz.CodeToState(wz.QuestionPFCMethod, sd.byCode(wz.QuestionPFCMethod)),
		ElectricitySource: wz.CodeToState(wz.QuestionElectricitySource, sd.byCode(wz.QuestionElectricitySource)),
	}

	return sd, nil
}

func (uc *WizardUsecase) anodeType(sd *stepData) string {
	code := sd.byCode(wz.QuestionAnodeType)
	if code == "" {
		return ""
	}
	return wz.CodeToState(wz.QuestionAnodeType, code)
}

// render builds the client view of the current screen
func (uc *WizardUsecase) render(ctx context.Context, ws *wizardSession, refetch bool) (*entity.WizardView, error) {
	sd, err := uc.step(ctx, ws, refetch)
	if err != nil {
		return nil, err
	}

	st := ws.state
	snap := wz.TakeSnapshot(st)
	v := &entity.WizardView{
		CalculationID: ws.record.CalculationID,
		Step:          st.Step(),
		Screen:        string(st.Screen()),
		Path:          uc.router.Path(st),
		ProductName:   snap.ProductName,
		Category:      snap.Category,
		Selected:      wz.Selected(st),
		Choices:       uc.router.Choices(st),
		StepCodes:     sd.codes,
		CanGoBack:     wz.CanGoBack(st),
		AnswerError:   ws.store.Err(),
	}
	if sd.catalogErr != nil {
		v.CatalogError = sd.catalogErr.Error()
	}

	if _, err := wz.Next(st, sd.facts); err == nil && sd.catalogErr == nil {
		v.CanAdvance = true
	}

	if wz.RendersForm(st) {
		v.Controls = sd.form.Controls
	}

	switch st.(type) {
	case wz.FuelInput:
		fillFuelPreview(v, ws.record.FuelRows)
	case wz.AnodeInput:
		if e, ok := wz.AnodePreview(uc.anodeType(sd), sd.byCode); ok {
			v.AnodePreview = wz.FormatTonnes(e)
		}
	case wz.PrecursorInput:
		fillPrecursorPreview(v, ws.record.PrecursorRows)
	case wz.Complete:
		result, err := uc.connector.GetResult(ctx, ws.id())
		if expired(err) {
			return nil, err
		}
		if err != nil {
			ctxzap.Warn(ctx, "result not loaded", zap.Error(err))
			v.ResultError = err.Error()
		}
		v.Result = result
	}

	return v, nil
}

func fillFuelPreview(v *entity.WizardView, rows []entity.FuelEntry) {
	v.FuelRows = make([]entity.FuelRowView, 0, len(rows))
	for _, r := range rows {
		row := entity.FuelRowView{FuelEntry: r}
		if e, ok := wz.FuelRowEmissions(r); ok {
			row.Emissions = wz.FormatKg(e)
		}
		v.FuelRows = append(v.FuelRows, row)
	}
	if total, ok := wz.FuelTotal(rows); ok {
		v.FuelTotal = wz.FormatKg(total)
	}
}

func fillPrecursorPreview(v *entity.WizardView, rows []entity.PrecursorEntry) {
	v.PrecursorRows = make([]entity.PrecursorRowView, 0, len(rows))
	for _, r := range rows {
		row := entity.PrecursorRowView{PrecursorEntry: r}
		if e, ok := wz.PrecursorEmissions(r); ok {
			row.Emissions = wz.FormatTonnes(e)
		}
		v.PrecursorRows = append(v.PrecursorRows, row)
	}
	if total, ok := wz.PrecursorTotal(rows); ok {
		v.PrecursorTotal = wz.FormatTonnes(total)
	}
}
