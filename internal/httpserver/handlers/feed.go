package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/feeds"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/store"
)

// SavedFeed renders the user's saved articles as an RSS feed, newest
// first. Feed readers are the main consumer.
func SavedFeed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		records, err := d.Store.List(r.Context(), userID, domain.KindSaved)
		if err != nil {
			d.Logger.Error("saved feed list failed",
				logger.String("user_id", userID),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "feed generation failed"})
			return
		}
		store.SortNewestFirst(records)

		now := d.TimeNow()
		feed := &feeds.Feed{
			Title:       "Saved articles",
			Description: fmt.Sprintf("Articles saved for later by %s", userID),
			Link:        &feeds.Link{Href: fmt.Sprintf("https://%s%s", r.Host, r.URL.Path), Rel: "self", Type: "application/rss+xml"},
			Created:     now,
			Updated:     now,
		}

		for _, rec := range records {
			item := &feeds.Item{
				Title:       rec.Title,
				Link:        &feeds.Link{Href: rec.URL, Rel: "alternate", Type: "text/html"},
				Id:          domain.DeriveKey(domain.KindSaved, rec.URL),
				Description: rec.Description,
				Created:     time.UnixMilli(rec.BookmarkedAt),
			}
			if rec.Source != "" {
				item.Author = &feeds.Author{Name: rec.Source}
			}
			feed.Items = append(feed.Items, item)
		}

		rss, err := feed.ToRss()
		if err != nil {
			d.Logger.Error("feed rendering failed", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "feed generation failed"})
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		if _, err := w.Write([]byte(rss)); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
