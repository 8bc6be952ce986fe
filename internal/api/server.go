package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/api/common"
	"github.com/futig/cbam-wizard/internal/api/docs"
	factorapi "github.com/futig/cbam-wizard/internal/api/emissionfactor"
	"github.com/futig/cbam-wizard/internal/api/middleware"
	wizardapi "github.com/futig/cbam-wizard/internal/api/wizard"
	"github.com/futig/cbam-wizard/internal/pkg/response"
)

// requestTimeout covers a wizard transition, which may fetch a step's questions and options
const requestTimeout = 60 * time.Second

// SetupRouter creates and configures the HTTP router
func SetupRouter(wizardHandler *wizardapi.Handler, factorHandler *factorapi.Handler, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimiddleware.Recoverer,
		chimiddleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(corsOrigins),
		chimiddleware.Timeout(requestTimeout),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, common.CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, common.CodeInvalidRequest, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)
	wizardapi.RegisterRoutes(r, wizardHandler)
	factorapi.RegisterRoutes(r, factorHandler)

	return r
}
