package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/response"
)

// Error codes returned in ErrorResponse.Error
const (
	CodeSessionExpired = "session_expired"
	CodeNotFound       = "not_found"
	CodeInvalidRequest = "invalid_request"
	CodeConflict       = "conflict"
	CodeUnprocessable  = "unprocessable"
	CodeBackend        = "backend_unavailable"
	CodeUnavailable    = "format_unavailable"
	CodeInternal       = "internal"
)

type errorMapping struct {
	errs   []error
	status int
	code   string
}

var mappings = []errorMapping{
	{[]error{entity.ErrSessionExpired}, http.StatusUnauthorized, CodeSessionExpired},
	{
		[]error{entity.ErrCalculationNotFound, entity.ErrQuestionNotFound, entity.ErrRowNotFound, entity.ErrWizardNotOpened, entity.ErrFactorNotFound},
		http.StatusNotFound, CodeNotFound,
	},
	{
		[]error{entity.ErrInvalidParameter, entity.ErrInvalidFormat, entity.ErrMissingField, entity.ErrInvalidPath},
		http.StatusBadRequest, CodeInvalidRequest,
	},
	{
		[]error{entity.ErrCannotAdvance, entity.ErrCannotGoBack, entity.ErrNotComplete, catalog.ErrSuperseded},
		http.StatusConflict, CodeConflict,
	},
	{[]error{entity.ErrInvalidChoice, entity.ErrUnsupportedInput}, http.StatusUnprocessableEntity, CodeUnprocessable},
	{[]error{entity.ErrBackend}, http.StatusBadGateway, CodeBackend},
	{[]error{entity.ErrFormatUnavailable}, http.StatusNotImplemented, CodeUnavailable},
}

// Status maps a use case error to its HTTP status and error code
func Status(err error) (int, string) {
	for _, m := range mappings {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				return m.status, m.code
			}
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// HandleUsecaseError writes the error response of a failed use case call
func HandleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := Status(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		ctxzap.Error(ctx, "request failed", zap.Error(err))
		message = "internal server error"
	} else {
		ctxzap.Info(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}

	response.Error(w, status, code, message)
}

// RespondBadRequest writes a 400 for undecodable or invalid input
func RespondBadRequest(ctx context.Context, w http.ResponseWriter, message string, err error) {
	ctxzap.Info(ctx, message, zap.Error(err))
	response.Error(w, http.StatusBadRequest, CodeInvalidRequest, message+": "+err.Error())
}
