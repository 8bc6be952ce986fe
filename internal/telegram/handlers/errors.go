package handlers

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/telegram/render"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

type errorClass struct {
	errs    []error
	message string
	log     string
}

var warningClasses = []errorClass{
	{[]error{entity.ErrChatNotAttached, entity.ErrWizardNotOpened}, render.ErrNotAttached, "chat not attached"},
	{[]error{entity.ErrSessionExpired}, render.ErrSessionExpired, "backend session expired"},
	{[]error{entity.ErrCalculationNotFound}, render.ErrNotFound, "calculation not found"},
	{[]error{entity.ErrCannotAdvance, entity.ErrCannotGoBack}, render.ErrCannotAdvance, "transition rejected"},
	{[]error{entity.ErrNotComplete}, render.ErrNotComplete, "calculation not completed"},
	{[]error{entity.ErrFormatUnavailable}, render.ErrFormatUnavailable, "report format unavailable"},
	{
		[]error{
			entity.ErrInvalidChoice, entity.ErrInvalidFormat, entity.ErrMissingField, entity.ErrInvalidParameter,
			entity.ErrUnsupportedInput, entity.ErrQuestionNotFound, entity.ErrRowNotFound, entity.ErrInvalidPath,
		},
		render.ErrInvalidInput, "input rejected",
	},
	{[]error{catalog.ErrSuperseded, context.Canceled}, "", "superseded by a newer action"},
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	for _, c := range warningClasses {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return &HandlerError{Err: err, UserMessage: c.message, LogMessage: c.log, Severity: SeverityWarning}
			}
		}
	}

	if errors.Is(err, entity.ErrBackend) || errors.Is(err, context.DeadlineExceeded) {
		return &HandlerError{Err: err, UserMessage: render.ErrBackend, LogMessage: "backend unavailable", Severity: SeverityError}
	}

	return &HandlerError{Err: err, UserMessage: render.ErrGeneric, LogMessage: "handler error", Severity: SeverityError}
}

// HandleError logs the error with its severity and tells the user what happened.
// Superseded actions are dropped silently.
func (h *Handler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	if handlerErr.UserMessage != "" {
		h.send(chatID, handlerErr.UserMessage, nil)
	}
}
