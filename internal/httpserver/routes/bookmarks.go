package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/httpserver/handlers"
	"github.com/newsclip-dev/newsclip/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	// Mutations share one token bucket per client IP; reads are unlimited.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		TrustProxy:        d.TrustProxy,
	}))

	limited.Post("/api/users/{userID}/{kind}", handlers.UpsertBookmark(d))
	limited.Delete("/api/users/{userID}/{kind}", handlers.RemoveBookmark(d))

	r.Get("/api/users/{userID}/{kind}", handlers.ListBookmarks(d))
	r.Get("/api/users/{userID}/{kind}/exists", handlers.BookmarkExists(d))
}
