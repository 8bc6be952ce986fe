package handlers

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/logger"
	"github.com/futig/cbam-wizard/internal/telegram/keyboard"
	"github.com/futig/cbam-wizard/internal/telegram/render"
	"github.com/futig/cbam-wizard/internal/telegram/state"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Args         string
	CallbackData string
	CallbackID   string
}

// Handler drives the wizard of the calculation attached to a chat
type Handler struct {
	wizard   WizardUsecase
	chats    *state.Manager
	sender   Sender
	keyboard *keyboard.Builder
	basePath string
	logger   *zap.Logger
}

func NewHandler(
	wizard WizardUsecase,
	chats *state.Manager,
	sender Sender,
	keyboard *keyboard.Builder,
	basePath string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		wizard:   wizard,
		chats:    chats,
		sender:   sender,
		keyboard: keyboard,
		basePath: basePath,
		logger:   logger,
	}
}

// Handle routes a message to the command, callback or text flow and reports failures to the chat
func (h *Handler) Handle(ctx context.Context, msg *Message) {
	var err error
	switch {
	case msg.CallbackData != "":
		err = h.HandleCallback(ctx, msg)
	case msg.Command != "":
		err = h.HandleCommand(ctx, msg)
	default:
		err = h.HandleText(ctx, msg)
	}
	h.HandleError(ctx, msg.ChatID, err)
}

// calculation returns the attached calculation and scopes the logger to it
func (h *Handler) calculation(ctx context.Context, chatID int64) (context.Context, string, error) {
	id, err := h.chats.Calculation(ctx, chatID)
	if err != nil {
		return ctx, "", err
	}
	return logger.AddFields(ctx, zap.String("calculation_id", id)), id, nil
}

// show sends the view with its keyboard. A redirect means the user left the wizard.
func (h *Handler) show(ctx context.Context, chatID int64, view *entity.WizardView) {
	if view.Redirect != "" {
		ctxzap.Info(ctx, "user left the wizard", zap.String("redirect", view.Redirect))
		h.send(chatID, render.MsgLeftWizard, nil)
		return
	}
	h.send(chatID, render.RenderView(view), h.keyboard.WizardKeyboard(view))
}

// open resumes the wizard of the calculation, entering it at the first step when it was never opened
func (h *Handler) open(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	view, err := h.wizard.View(ctx, calculationID)
	if errors.Is(err, entity.ErrWizardNotOpened) {
		return h.wizard.Open(ctx, calculationID, h.basePath)
	}
	return view, err
}

func (h *Handler) send(chatID int64, text string, markup any) {
	if h.sender == nil {
		return
	}
	_ = h.sender.Send(chatID, text, markup)
}
