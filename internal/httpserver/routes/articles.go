package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/httpserver/handlers"
)

func init() { Register(registerArticles) }

func registerArticles(r chi.Router, d deps.Deps) {
	r.Get("/api/articles", handlers.Articles(d))
}
