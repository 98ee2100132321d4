package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/httpserver/handlers"
	"github.com/newsclip-dev/newsclip/internal/metrics"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}
