package emissionfactor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/api/common"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/logger"
	"github.com/futig/cbam-wizard/internal/pkg/response"
	efuc "github.com/futig/cbam-wizard/internal/usecase/emissionfactor"
)

type Handler struct {
	usecase EmissionFactorUsecase
}

func NewHandler(usecase EmissionFactorUsecase) *Handler {
	return &Handler{usecase: usecase}
}

type listResponse struct {
	Level   string   `json:"level"`
	Options []string `json:"options"`
}

func queryFromRequest(r *http.Request) entity.EmissionFactorQuery {
	v := r.URL.Query()
	return entity.EmissionFactorQuery{
		Sector:       v.Get("sector"),
		Subsector:    v.Get("subsector"),
		Subsubsector: v.Get("subsubsector"),
		Name:         v.Get("name"),
		Denominator:  v.Get("denominator"),
	}
}

// List handles GET /emission-factors/{level}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	ctx := logger.WithAction(r.Context(), "ListEmissionFactors")
	ctx = logger.AddFields(ctx, zap.String("level", level))

	options, err := h.usecase.List(ctx, efuc.Level(level), queryFromRequest(r))
	if err != nil {
		common.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, listResponse{Level: level, Options: options})
}

// Resolve handles GET /emission-factors/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ResolveEmissionFactor")

	factor, err := h.usecase.Resolve(ctx, queryFromRequest(r))
	if err != nil {
		common.HandleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "emission factor resolved", zap.String("factor_id", string(factor.ID)))
	response.Success(w, factor)
}
