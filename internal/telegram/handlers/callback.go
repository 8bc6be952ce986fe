package handlers

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/telegram/keyboard"
	"github.com/futig/cbam-wizard/internal/telegram/render"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// HandleCallback handles inline button clicks
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	var view *entity.WizardView
	switch data.Action {
	case keyboard.ActionPick:
		view, err = h.pick(ctx, id, data.Value)
	case keyboard.ActionOption:
		view, err = h.option(ctx, id, data.Value)
	case keyboard.ActionNav:
		view, err = h.navigate(ctx, id, data.Value)
	case keyboard.ActionDownload:
		return h.download(ctx, msg.ChatID, id, entity.ResultFormat(data.Value))
	default:
		return fmt.Errorf("%w: callback action %q", entity.ErrInvalidParameter, data.Action)
	}
	if err != nil {
		return err
	}

	h.show(ctx, msg.ChatID, view)
	return nil
}

// pick selects a category on the product screen and a choice on the other static screens
func (h *Handler) pick(ctx context.Context, id, slug string) (*entity.WizardView, error) {
	current, err := h.wizard.View(ctx, id)
	if err != nil {
		return nil, err
	}

	if wz.Screen(current.Screen) == wz.ScreenProductEntry {
		return h.wizard.Edit(ctx, id, &entity.EditWizardRequest{Category: &slug})
	}
	return h.wizard.Edit(ctx, id, &entity.EditWizardRequest{Choice: &slug})
}

// option answers a radio question addressed by control and option position in the current view
func (h *Handler) option(ctx context.Context, id, value string) (*entity.WizardView, error) {
	ci, oi, err := keyboard.ParseOption(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	current, err := h.wizard.View(ctx, id)
	if err != nil {
		return nil, err
	}
	if ci < 0 || ci >= len(current.Controls) || oi < 0 || oi >= len(current.Controls[ci].Options) {
		return nil, fmt.Errorf("%w: option %s is not on the current step", entity.ErrInvalidChoice, value)
	}

	control := current.Controls[ci]
	return h.wizard.SetAnswer(ctx, id, control.QuestionID, control.Options[oi].Code)
}

func (h *Handler) navigate(ctx context.Context, id, direction string) (*entity.WizardView, error) {
	switch direction {
	case keyboard.NavNext:
		return h.wizard.Next(ctx, id)
	case keyboard.NavBack:
		return h.wizard.Back(ctx, id)
	case keyboard.NavRefetch:
		return h.wizard.Refetch(ctx, id)
	default:
		return nil, fmt.Errorf("%w: navigation %q", entity.ErrInvalidParameter, direction)
	}
}

func (h *Handler) download(ctx context.Context, chatID int64, id string, format entity.ResultFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, format)
	}

	report, err := h.wizard.Report(ctx, id, format)
	if err != nil {
		return err
	}

	if err := h.sender.SendDocument(chatID, report.Filename, report.Body); err != nil {
		return err
	}
	ctxzap.Info(ctx, "report sent", zap.String("format", string(format)), zap.Int("bytes", len(report.Body)))
	h.send(chatID, render.MsgReportReady, nil)
	return nil
}
