package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/metrics"
	"github.com/newsclip-dev/newsclip/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathKind(r *http.Request) (domain.Kind, error) {
	return domain.ParseKind(chi.URLParam(r, "kind"))
}

// UpsertBookmark creates or replaces one bookmark record. The request
// body carries the article being bookmarked. If the article is known to
// the catalog, missing metadata is merged from the catalog copy; unknown
// articles fall back to OpenGraph enrichment when enabled.
func UpsertBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		kind, err := pathKind(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		var article domain.Article
		if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		mergeFromCatalog(d, &article)
		if d.Enricher != nil {
			d.Enricher.Fill(&article)
		}

		rec, err := d.Store.Upsert(r.Context(), userID, kind, &article)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				metrics.RecordMutationError(string(kind), "invalid_argument")
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			metrics.RecordMutationError(string(kind), "transport")
			d.Logger.Error("bookmark upsert failed",
				logger.String("user_id", userID),
				logger.String("kind", string(kind)),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "bookmark write failed"})
			return
		}

		metrics.RecordUpsert(string(kind))
		writeJSON(w, http.StatusOK, rec)
	}
}

// RemoveBookmark deletes the record addressed by the url query param.
// Removing an absent record succeeds; so does an empty url.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		kind, err := pathKind(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		rawURL := r.URL.Query().Get("url")

		if err := d.Store.Remove(r.Context(), userID, kind, rawURL); err != nil {
			metrics.RecordMutationError(string(kind), "transport")
			d.Logger.Error("bookmark removal failed",
				logger.String("user_id", userID),
				logger.String("kind", string(kind)),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "bookmark removal failed"})
			return
		}

		metrics.RecordRemove(string(kind))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListBookmarks returns the user's full collection, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		kind, err := pathKind(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		records, err := d.Store.List(r.Context(), userID, kind)
		if err != nil {
			d.Logger.Error("bookmark list failed",
				logger.String("user_id", userID),
				logger.String("kind", string(kind)),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "bookmark list failed"})
			return
		}

		store.SortNewestFirst(records)
		if records == nil {
			records = []*domain.BookmarkRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

type existsResponse struct {
	Exists bool   `json:"exists"`
	Key    string `json:"key"`
}

// BookmarkExists is a point lookup by url query param.
func BookmarkExists(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		kind, err := pathKind(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		rawURL := r.URL.Query().Get("url")
		ok, err := d.Store.Exists(r.Context(), userID, kind, rawURL)
		if err != nil {
			d.Logger.Error("bookmark lookup failed",
				logger.String("user_id", userID),
				logger.String("kind", string(kind)),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "bookmark lookup failed"})
			return
		}

		writeJSON(w, http.StatusOK, existsResponse{
			Exists: ok,
			Key:    domain.DeriveKey(kind, rawURL),
		})
	}
}

// mergeFromCatalog fills empty article fields from the catalog copy of
// the same URL. The client payload always wins when a field is set.
func mergeFromCatalog(d deps.Deps, article *domain.Article) {
	if d.Catalog == nil {
		return
	}
	known, ok := d.Catalog.GetByURL(article.Link)
	if !ok {
		return
	}
	if article.Title == "" {
		article.Title = known.Title
	}
	if article.Description == "" {
		article.Description = known.Description
	}
	if article.Thumbnail == "" {
		article.Thumbnail = known.Thumbnail
	}
	if article.CoverImage == "" {
		article.CoverImage = known.CoverImage
	}
	if article.PublishedAt == "" {
		article.PublishedAt = known.PublishedAt
	}
	if article.Source == "" {
		article.Source = known.Source
	}
	if article.ArticleID == "" {
		article.ArticleID = known.ArticleID
	}
	if article.Category == "" {
		article.Category = known.Category
	}
}
