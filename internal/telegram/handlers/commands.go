package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/telegram/render"
)

// HandleCommand handles bot commands
func (h *Handler) HandleCommand(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case "start":
		h.send(msg.ChatID, render.MsgWelcome, nil)
		return nil
	case "help":
		h.send(msg.ChatID, render.MsgHelp, nil)
		return nil
	case "calc":
		return h.attach(ctx, msg)
	case "view":
		return h.view(ctx, msg)
	case "cancel":
		if err := h.chats.Detach(ctx, msg.ChatID); err != nil {
			return err
		}
		h.send(msg.ChatID, render.MsgDetached, nil)
		return nil
	case "fuel":
		return h.addFuel(ctx, msg)
	case "precursor":
		return h.addPrecursor(ctx, msg)
	case "delfuel":
		return h.deleteRow(ctx, msg, true)
	case "delprecursor":
		return h.deleteRow(ctx, msg, false)
	default:
		h.send(msg.ChatID, render.ErrBadCommand, nil)
		return nil
	}
}

func (h *Handler) attach(ctx context.Context, msg *Message) error {
	id := strings.TrimSpace(msg.Args)
	if id == "" {
		h.send(msg.ChatID, render.ErrBadCommand, nil)
		return nil
	}

	view, err := h.open(ctx, id)
	if err != nil {
		return err
	}
	if err := h.chats.Attach(ctx, msg.ChatID, id); err != nil {
		return err
	}

	ctxzap.Info(ctx, "chat attached to calculation", zap.String("calculation_id", id), zap.Int64("chat_id", msg.ChatID))
	h.show(ctx, msg.ChatID, view)
	return nil
}

func (h *Handler) view(ctx context.Context, msg *Message) error {
	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	view, err := h.open(ctx, id)
	if err != nil {
		return err
	}
	h.show(ctx, msg.ChatID, view)
	return nil
}

// splitFields splits "a | b | c" into exactly n trimmed fields
func splitFields(args string, n int) ([]string, bool) {
	parts := strings.Split(args, "|")
	if len(parts) != n {
		return nil, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func (h *Handler) addFuel(ctx context.Context, msg *Message) error {
	f, ok := splitFields(msg.Args, 6)
	if !ok {
		h.send(msg.ChatID, render.ErrBadCommand, nil)
		return nil
	}

	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	view, err := h.wizard.AddFuelRow(ctx, id, &entity.FuelRowRequest{
		Sector:             &f[0],
		Subsector:          &f[1],
		Subsubsector:       &f[2],
		EmissionFactorName: &f[3],
		Denominator:        &f[4],
		Amount:             &f[5],
	})
	if err != nil {
		return err
	}
	h.show(ctx, msg.ChatID, view)
	return nil
}

func (h *Handler) addPrecursor(ctx context.Context, msg *Message) error {
	f, ok := splitFields(msg.Args, 3)
	if !ok {
		h.send(msg.ChatID, render.ErrBadCommand, nil)
		return nil
	}

	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	view, err := h.wizard.AddPrecursorRow(ctx, id, &entity.PrecursorRowRequest{
		Vrsta:            &f[0],
		Kolicina:         &f[1],
		UgradjeneEmisije: &f[2],
	})
	if err != nil {
		return err
	}
	h.show(ctx, msg.ChatID, view)
	return nil
}

// deleteRow removes the n-th (1-based) fuel or precursor row of the current view
func (h *Handler) deleteRow(ctx context.Context, msg *Message, fuel bool) error {
	n, err := strconv.Atoi(strings.TrimSpace(msg.Args))
	if err != nil || n < 1 {
		h.send(msg.ChatID, render.ErrBadCommand, nil)
		return nil
	}

	ctx, id, err := h.calculation(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	current, err := h.wizard.View(ctx, id)
	if err != nil {
		return err
	}

	var view *entity.WizardView
	if fuel {
		if n > len(current.FuelRows) {
			return fmt.Errorf("%w: fuel row %d", entity.ErrRowNotFound, n)
		}
		view, err = h.wizard.DeleteFuelRow(ctx, id, current.FuelRows[n-1].ID)
	} else {
		if n > len(current.PrecursorRows) {
			return fmt.Errorf("%w: precursor row %d", entity.ErrRowNotFound, n)
		}
		view, err = h.wizard.DeletePrecursorRow(ctx, id, current.PrecursorRows[n-1].ID)
	}
	if err != nil {
		return err
	}
	h.show(ctx, msg.ChatID, view)
	return nil
}
