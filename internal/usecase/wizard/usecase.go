package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/answers"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/logger"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// WizardUsecase drives the calculation wizard: it owns the wizard position, the local
// answers and rows, and every side effect of a transition
type WizardUsecase struct {
	connector     CBAMConnector
	sessions      SessionRepository
	catalog       QuestionCatalog
	factors       FactorResolver
	reports       ReportFactory
	router        *wz.Router
	dashboardPath string
	logger        *zap.Logger
}

// NewUsecase creates a new wizard use case
func NewUsecase(
	connector CBAMConnector,
	sessions SessionRepository,
	catalog QuestionCatalog,
	factors FactorResolver,
	reports ReportFactory,
	router *wz.Router,
	dashboardPath string,
	logger *zap.Logger,
) *WizardUsecase {
	return &WizardUsecase{
		connector:     connector,
		sessions:      sessions,
		catalog:       catalog,
		factors:       factors,
		reports:       reports,
		router:        router,
		dashboardPath: dashboardPath,
		logger:        logger,
	}
}

// Router exposes the path mapping used by the wizard
func (uc *WizardUsecase) Router() *wz.Router {
	return uc.router
}

// Open deep-links into the wizard. The path is fast-forwarded to its deepest valid
// prefix without replaying any transition side effect; answers are reloaded.
func (uc *WizardUsecase) Open(ctx context.Context, calculationID, path string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "open_wizard")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}

	st, err := uc.router.ParsePath(path, ws.calc.ProductName)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(wz.ProductEntry); ok {
		st = uc.entryState(ws.calc)
	}
	ws.state = st

	if !ws.fetched {
		if err := ws.store.Fetch(ctx); expired(err) {
			return nil, err
		}
	}

	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "wizard opened", zap.String("path", uc.router.Path(st)), zap.Int("step", st.Step()))
	return uc.render(ctx, ws, false)
}

// View renders the current screen
func (uc *WizardUsecase) View(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "view_wizard")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// Refetch renders the current screen with its questions reloaded
func (uc *WizardUsecase) Refetch(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "refetch_questions")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, true)
}

// Edit changes the pending selection of a static screen
func (uc *WizardUsecase) Edit(ctx context.Context, calculationID string, req *entity.EditWizardRequest) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "edit_wizard")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}

	edit := wz.Edit{Choice: req.Choice}
	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		edit.ProductName = &name
	}
	if req.Category != nil {
		category, ok := uc.router.Category(*req.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", entity.ErrInvalidChoice, *req.Category)
		}
		edit.Category = &category
	}

	st, err := wz.Apply(ws.state, edit)
	if err != nil {
		return nil, err
	}
	ws.state = st

	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// SetAnswer changes the local answer of a question on the current step.
// Nothing is sent to the backend until Next.
func (uc *WizardUsecase) SetAnswer(ctx context.Context, calculationID string, questionID entity.ID, value string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "set_answer")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	if !wz.RendersForm(ws.state) {
		return nil, fmt.Errorf("%w: %s has no questions", entity.ErrUnsupportedInput, ws.state.Screen())
	}

	sd, err := uc.step(ctx, ws, false)
	if err != nil {
		return nil, err
	}
	if sd.catalogErr != nil {
		return nil, fmt.Errorf("load questions: %w", sd.catalogErr)
	}

	var (
		question entity.QuestionWithOptions
		found    bool
	)
	for _, q := range sd.questions {
		if q.ID == questionID {
			question, found = q, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", entity.ErrQuestionNotFound, questionID)
	}

	choice := question.QuestionType.IsChoice()
	if choice {
		value = strings.TrimSpace(value)
		if !wz.ValidOption(question, value) {
			return nil, fmt.Errorf("%w: %q is not an option of %s", entity.ErrInvalidChoice, value, question.Code)
		}
	}
	ws.store.Set(question.ID, answers.ForQuestion(choice, value))

	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// Next persists the step and advances. Finishing screens submit the calculation
// and enter Complete only when the backend reports it completed.
func (uc *WizardUsecase) Next(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "wizard_next")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}

	sd, err := uc.step(ctx, ws, false)
	if err != nil {
		return nil, err
	}
	if sd.catalogErr != nil {
		return nil, fmt.Errorf("%w: questions are not loaded", entity.ErrCannotAdvance)
	}

	next, err := wz.Next(ws.state, sd.facts)
	if err != nil {
		return nil, err
	}

	if err := uc.persistAnswers(ctx, ws, sd); err != nil {
		return nil, err
	}

	if _, done := next.(wz.Complete); done {
		if err := uc.submit(ctx, ws); err != nil {
			if serr := uc.save(ctx, ws); serr != nil {
				ctxzap.Error(ctx, "save wizard session", zap.Error(serr))
			}
			return nil, err
		}
	} else if err := uc.syncPosition(ctx, ws.id(), next); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "wizard advanced",
		zap.String("from", string(ws.state.Screen())),
		zap.String("to", string(next.Screen())),
	)
	ws.state = next

	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// Back returns to the previous screen and deletes the stored answers of the step
// being left. From step 1 it leaves the wizard for the dashboard.
func (uc *WizardUsecase) Back(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "wizard_back")

	ws, err := uc.load(ctx, calculationID)
	if err != nil {
		return nil, err
	}

	prev, left, err := wz.Back(ws.state)
	if err != nil {
		return nil, err
	}
	if left {
		v, err := uc.render(ctx, ws, false)
		if err != nil {
			return nil, err
		}
		v.Redirect = uc.dashboardPath
		return v, nil
	}

	if wz.RendersForm(ws.state) || ws.state.Screen() == wz.ScreenFuelInput {
		sd, err := uc.step(ctx, ws, false)
		if err != nil {
			return nil, err
		}
		ids := make([]entity.ID, 0, len(sd.all))
		for _, q := range sd.all {
			ids = append(ids, q.ID)
		}
		if err := ws.store.DeleteForQuestions(ctx, ids); err != nil {
			if expired(err) {
				return nil, err
			}
			ctxzap.Warn(ctx, "answers of left step not deleted", zap.Error(err))
		}
	}

	if err := uc.syncPosition(ctx, ws.id(), prev); err != nil {
		return nil, err
	}
	ws.state = prev

	if err := uc.save(ctx, ws); err != nil {
		return nil, err
	}
	return uc.render(ctx, ws, false)
}

// persistAnswers upserts what the current step collected
func (uc *WizardUsecase) persistAnswers(ctx context.Context, ws *wizardSession, sd *stepData) error {
	save := func(questionID entity.ID, v answers.Value, factorID *entity.ID) error {
		if err := ws.store.Save(ctx, questionID, v, factorID); expired(err) {
			return err
		}
		return nil
	}

	switch ws.state.(type) {
	case wz.FuelInput:
		var target *entity.QuestionWithOptions
		for i := range sd.all {
			if sd.all[i].QuestionType == entity.QuestionTypeValue {
				target = &sd.all[i]
				break
			}
		}
		if target == nil {
			ctxzap.Warn(ctx, "fuel step has no value question, rows not saved")
			return nil
		}

		// All rows go into one answer; the backend keeps one answer per question.
		items := make([]entity.FuelAnswerItem, 0, len(ws.record.FuelRows))
		for _, row := range ws.record.FuelRows {
			if !wz.FuelRowComplete(row) || row.EmissionFactorID == nil {
				continue
			}
			items = append(items, entity.FuelAnswerItem{
				EmissionFactorID:   *row.EmissionFactorID,
				EmissionFactorName: row.EmissionFactorName,
				Denominator:        row.Denominator,
				Amount:             strings.TrimSpace(row.Amount),
			})
		}
		body, err := sonic.ConfigStd.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode fuel rows: %w", err)
		}
		return save(target.ID, answers.Text(string(body)), nil)

	case wz.PrecursorInput:
		if q, ok := wz.FindQuestion(sd.all, wz.QuestionPrecursorList); ok {
			body, err := sonic.ConfigStd.Marshal(ws.record.PrecursorRows)
			if err != nil {
				return fmt.Errorf("encode precursor rows: %w", err)
			}
			if err := save(q.ID, answers.Text(string(body)), nil); err != nil {
				return err
			}
		}
	}

	for _, q := range wz.VisibleQuestions(sd.questions, ws.store.Get) {
		v, ok := ws.store.Value(q.ID)
		if !ok || v.Empty() {
			continue
		}
		if err := save(q.ID, v, nil); err != nil {
			return err
		}
	}
	return nil
}

// submit asks the backend to finish the calculation
func (uc *WizardUsecase) submit(ctx context.Context, ws *wizardSession) error {
	calc, err := uc.connector.UpdateCalculation(ctx, ws.id(), calculationUpdate(ws.state, entity.CalculationStatusSubmitted))
	if err != nil {
		return fmt.Errorf("submit calculation: %w", err)
	}
	if calc.Status != entity.CalculationStatusCompleted {
		ctxzap.Info(ctx, "calculation submitted but not completed", zap.String("status", string(calc.Status)))
		return fmt.Errorf("%w: status %s", entity.ErrNotComplete, calc.Status)
	}
	return nil
}

// syncPosition records the wizard position on the calculation. Only a rejected
// token fails the transition.
func (uc *WizardUsecase) syncPosition(ctx context.Context, id entity.ID, st wz.State) error {
	if _, err := uc.connector.UpdateCalculation(ctx, id, calculationUpdate(st, "")); err != nil {
		if expired(err) {
			return fmt.Errorf("update calculation: %w", err)
		}
		ctxzap.Warn(ctx, "calculation position not updated", zap.Error(err))
	}
	return nil
}

func calculationUpdate(st wz.State, status entity.CalculationStatus) entity.CalculationUpdate {
	snap := wz.TakeSnapshot(st)
	step := st.Step()

	u := entity.CalculationUpdate{
		CurrentStep: &step,
		Status:      status,
		ProductName: snap.ProductName,
		Category:    snap.Category,
	}
	if snap.ProductType != "" {
		u.ProductType = wz.StateToCode(wz.QuestionProductType, snap.ProductType)
	}
	if snap.ProductSubtype != "" {
		u.ProductSubtype = wz.StateToCode(wz.QuestionProductSubtype, snap.ProductSubtype)
	}
	if snap.ProductionProcess != "" {
		u.ProductionProcess = wz.StateToCode(wz.QuestionProductionProcess, wz.ComputationProcess(snap.ProductionProcess))
	}
	if snap.DataQualityLevel != "" {
		u.DataQualityLevel = wz.StateToCode(wz.QuestionDataQuality, snap.DataQualityLevel)
	}
	return u
}

// Result returns the computed result of a completed calculation
func (uc *WizardUsecase) Result(ctx context.Context, calculationID string) (*entity.CalculationResult, error) {
	ctx = logger.WithCalculation(ctx, calculationID, "get_result")

	result, err := uc.connector.GetResult(ctx, entity.ID(calculationID))
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// Report is a rendered result document
type Report struct {
	Body        []byte
	ContentType string
	Filename    string
}

// Report renders the result of a completed calculation in the requested format
func (uc *WizardUsecase) Report(ctx context.Context, calculationID string, format entity.ResultFormat) (*Report, error) {
	f, err := uc.reports.Create(format)
	if err != nil {
		return nil, err
	}

	result, err := uc.Result(ctx, calculationID)
	if err != nil {
		return nil, err
	}

	body, err := f.Format(result)
	if err != nil {
		return nil, fmt.Errorf("format report: %w", err)
	}

	return &Report{
		Body:        body,
		ContentType: f.ContentType(),
		Filename:    "cbam-" + calculationID + f.FileExtension(),
	}, nil
}
