package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/answers"
	"github.com/futig/cbam-wizard/internal/entity"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// wizardSession is a loaded wizard: the persisted record, its decoded state
// and the answer store of the calculation
type wizardSession struct {
	// calc is the calculation as the backend returned it for this request
	calc   *entity.Calculation
	record *entity.WizardSession
	state  wz.State
	store  *answers.Store
	// fetched is set when the answers were loaded from the backend rather than the record
	fetched bool
}

func (ws *wizardSession) id() entity.ID {
	return entity.ID(ws.record.CalculationID)
}

// expired reports errors that must reach the client instead of being recorded on the view
func expired(err error) bool {
	return errors.Is(err, entity.ErrSessionExpired)
}

// load restores the wizard of a calculation, opening it at step 1 on first use.
// Every load reads the calculation with the caller's token first, so a cached
// session is never served to a token the backend rejects.
func (uc *WizardUsecase) load(ctx context.Context, calculationID string) (*wizardSession, error) {
	calc, err := uc.connector.GetCalculation(ctx, entity.ID(calculationID))
	if err != nil {
		return nil, fmt.Errorf("get calculation: %w", err)
	}

	record, err := uc.sessions.Get(ctx, calculationID)
	if errors.Is(err, entity.ErrWizardNotOpened) {
		ws := uc.newSession(calculationID, uc.entryState(calc))
		ws.calc = calc
		if err := ws.store.Fetch(ctx); expired(err) {
			return nil, err
		}
		ws.fetched = true
		return ws, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wizard session: %w", err)
	}

	ws := &wizardSession{
		calc:   calc,
		record: record,
		store:  answers.New(uc.connector, entity.ID(calculationID)),
	}

	var snap wz.Snapshot
	if err := sonic.ConfigStd.Unmarshal(record.StateData, &snap); err != nil {
		ctxzap.Warn(ctx, "wizard state unreadable, restarting", zap.Error(err))
		ws.state = wz.ProductEntry{}
	} else if ws.state, err = wz.Restore(snap); err != nil {
		ctxzap.Warn(ctx, "wizard state invalid, restarting", zap.Error(err))
		ws.state = wz.ProductEntry{ProductName: snap.ProductName}
	}

	if record.Answers != nil {
		ws.store.Restore(record.Answers)
	} else {
		if err := ws.store.Fetch(ctx); expired(err) {
			return nil, err
		}
		ws.fetched = true
	}

	return ws, nil
}

func (uc *WizardUsecase) newSession(calculationID string, state wz.State) *wizardSession {
	return &wizardSession{
		record: &entity.WizardSession{CalculationID: calculationID},
		state:  state,
		store:  answers.New(uc.connector, entity.ID(calculationID)),
	}
}

// entryState is step 1 prefilled from the calculation
func (uc *WizardUsecase) entryState(calc *entity.Calculation) wz.ProductEntry {
	st := wz.ProductEntry{ProductName: calc.ProductName}
	if category, ok := uc.router.Category(calc.Category); ok {
		st.Category = category
	}
	return st
}

// save persists the state and the local answers
func (uc *WizardUsecase) save(ctx context.Context, ws *wizardSession) error {
	data, err := sonic.ConfigStd.Marshal(wz.TakeSnapshot(ws.state))
	if err != nil {
		return fmt.Errorf("encode wizard state: %w", err)
	}

	ws.record.StateData = data
	if ws.store.Loaded() {
		ws.record.Answers = ws.store.Export()
	}

	if err := uc.sessions.Save(ctx, ws.record); err != nil {
		return fmt.Errorf("save wizard session: %w", err)
	}
	return nil
}
