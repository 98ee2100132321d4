package handlers

import (
	"net/http"
	"time"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
)

type articlesResponse struct {
	Articles   []*domain.Article `json:"articles"`
	Count      int               `json:"count"`
	LastReload time.Time         `json:"last_reload"`
}

// Articles lists the current article catalog.
func Articles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Catalog == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "article catalog disabled"})
			return
		}

		articles := d.Catalog.GetAll()
		if articles == nil {
			articles = []*domain.Article{}
		}
		writeJSON(w, http.StatusOK, articlesResponse{
			Articles:   articles,
			Count:      len(articles),
			LastReload: d.Catalog.GetLastReload(),
		})
	}
}
