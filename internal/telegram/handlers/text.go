package handlers

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/telegram/render"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// numberedAnswer matches "<n>: value" and "<n>= value"
var numberedAnswer = regexp.MustCompile(`^\s*(\d+)\s*[:=]\s*(.*)$`)

// HandleText treats a plain message as the product name on the first step
// and as a field answer on question steps
func (h *Handler) HandleText(ctx context.Context, msg *Message) error {
	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	current, err := h.wizard.View(ctx, id)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(msg.Text)

	if wz.Screen(current.Screen) == wz.ScreenProductEntry {
		view, err := h.wizard.Edit(ctx, id, &entity.EditWizardRequest{ProductName: &text})
		if err != nil {
			return err
		}
		h.show(ctx, msg.ChatID, view)
		return nil
	}

	control, value, ok := targetControl(current.Controls, text)
	if !ok {
		if hasInput(current.Controls) {
			h.send(msg.ChatID, render.MsgFieldNumber, nil)
		} else {
			h.send(msg.ChatID, render.MsgNoInput, nil)
		}
		return nil
	}

	view, err := h.wizard.SetAnswer(ctx, id, control.QuestionID, value)
	if err != nil {
		return err
	}
	h.show(ctx, msg.ChatID, view)
	return nil
}

// targetControl picks the input a message answers: the numbered field when the
// message starts with "<n>:", otherwise the only or the first empty input
func targetControl(controls []entity.Control, text string) (entity.Control, string, bool) {
	if m := numberedAnswer.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= len(controls) && controls[n-1].Kind == entity.ControlInput {
			return controls[n-1], strings.TrimSpace(m[2]), true
		}
	}

	var inputs []entity.Control
	for _, c := range controls {
		if c.Kind == entity.ControlInput {
			inputs = append(inputs, c)
		}
	}
	if len(inputs) == 1 {
		return inputs[0], text, true
	}
	for _, c := range inputs {
		if strings.TrimSpace(c.Value) == "" {
			return c, text, true
		}
	}
	return entity.Control{}, "", false
}

func hasInput(controls []entity.Control) bool {
	for _, c := range controls {
		if c.Kind == entity.ControlInput {
			return true
		}
	}
	return false
}
