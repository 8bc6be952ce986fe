package wizard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/api/common"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/logger"
	"github.com/futig/cbam-wizard/internal/pkg/response"
	"github.com/futig/cbam-wizard/internal/pkg/validator"
)

type Handler struct {
	usecase   WizardUsecase
	validator *validator.Validator
}

func NewHandler(usecase WizardUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// requestContext scopes the request logger to the calculation of the route
func requestContext(r *http.Request, action string) (context.Context, string) {
	calculationID := chi.URLParam(r, "id")
	return logger.WithCalculation(r.Context(), calculationID, action), calculationID
}

// decode reads and validates a JSON body, writing the 400 itself on failure
func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := response.Decode(r, dst); err != nil {
		common.RespondBadRequest(ctx, w, "invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		common.RespondBadRequest(ctx, w, "validation failed", err)
		return false
	}
	return true
}

func (h *Handler) respondView(ctx context.Context, w http.ResponseWriter, view *entity.WizardView, err error) {
	if err != nil {
		common.HandleUsecaseError(ctx, w, err)
		return
	}
	ctxzap.Debug(ctx, "wizard view", zap.String("screen", view.Screen), zap.String("path", view.Path))
	response.Success(w, view)
}

// Open handles POST /calculations/{id}/wizard/open - deep-link into the wizard
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "OpenWizard")

	var req entity.OpenWizardRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.Open(ctx, id, req.Path)
	h.respondView(ctx, w, view, err)
}

// View handles GET /calculations/{id}/wizard
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "ViewWizard")
	view, err := h.usecase.View(ctx, id)
	h.respondView(ctx, w, view, err)
}

// Edit handles PATCH /calculations/{id}/wizard - change a static screen selection
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "EditWizard")

	var req entity.EditWizardRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.Edit(ctx, id, &req)
	h.respondView(ctx, w, view, err)
}

// SetAnswer handles PUT /calculations/{id}/wizard/answers/{question_id}
func (h *Handler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "SetAnswer")
	questionID := entity.ID(chi.URLParam(r, "question_id"))

	var req entity.SetAnswerRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.SetAnswer(ctx, id, questionID, req.Value)
	h.respondView(ctx, w, view, err)
}

// Next handles POST /calculations/{id}/wizard/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "WizardNext")
	view, err := h.usecase.Next(ctx, id)
	h.respondView(ctx, w, view, err)
}

// Back handles POST /calculations/{id}/wizard/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "WizardBack")
	view, err := h.usecase.Back(ctx, id)
	h.respondView(ctx, w, view, err)
}

// Refetch handles POST /calculations/{id}/wizard/questions/refetch
func (h *Handler) Refetch(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "RefetchQuestions")
	view, err := h.usecase.Refetch(ctx, id)
	h.respondView(ctx, w, view, err)
}

func (h *Handler) AddFuelRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "AddFuelRow")

	var req entity.FuelRowRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.AddFuelRow(ctx, id, &req)
	h.respondView(ctx, w, view, err)
}

func (h *Handler) UpdateFuelRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "UpdateFuelRow")

	var req entity.FuelRowRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.UpdateFuelRow(ctx, id, chi.URLParam(r, "row_id"), &req)
	h.respondView(ctx, w, view, err)
}

func (h *Handler) DeleteFuelRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "DeleteFuelRow")
	view, err := h.usecase.DeleteFuelRow(ctx, id, chi.URLParam(r, "row_id"))
	h.respondView(ctx, w, view, err)
}

func (h *Handler) AddPrecursorRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "AddPrecursorRow")

	var req entity.PrecursorRowRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.AddPrecursorRow(ctx, id, &req)
	h.respondView(ctx, w, view, err)
}

func (h *Handler) UpdatePrecursorRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "UpdatePrecursorRow")

	var req entity.PrecursorRowRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	view, err := h.usecase.UpdatePrecursorRow(ctx, id, chi.URLParam(r, "row_id"), &req)
	h.respondView(ctx, w, view, err)
}

func (h *Handler) DeletePrecursorRow(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "DeletePrecursorRow")
	view, err := h.usecase.DeletePrecursorRow(ctx, id, chi.URLParam(r, "row_id"))
	h.respondView(ctx, w, view, err)
}

// GetResult handles GET /calculations/{id}/result. Without a format the result is
// returned as JSON, with one it is downloaded as a document.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "GetResult")

	raw := r.URL.Query().Get("format")
	if raw == "" {
		result, err := h.usecase.Result(ctx, id)
		if err != nil {
			common.HandleUsecaseError(ctx, w, err)
			return
		}
		response.Success(w, result)
		return
	}

	format, err := h.validator.ValidateFormat(raw)
	if err != nil {
		common.RespondBadRequest(ctx, w, "invalid format", err)
		return
	}

	report, err := h.usecase.Report(ctx, id, format)
	if err != nil {
		common.HandleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "report generated", zap.String("format", string(format)), zap.Int("bytes", len(report.Body)))
	response.File(w, report.ContentType, report.Filename, report.Body)
}
