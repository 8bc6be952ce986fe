// Package docs serves the OpenAPI description of the wizard API and a Swagger UI over it.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specPath = "/docs/swagger.yaml"

//go:embed swagger.yaml
var spec []byte

// RegisterRoutes mounts the UI under /docs and the raw document at /docs/swagger.yaml
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", http.RedirectHandler("/docs/index.html", http.StatusFound).ServeHTTP)
	r.Get(specPath, serveSpec)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL(specPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(spec)
}
