package enrich

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/logger"
)

const articlePage = `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description.">
<meta property="og:image" content="https://cdn.example.com/cover.jpg">
<meta property="og:site_name" content="Example News">
</head><body>article body</body></html>`

func newTestFetcher() *Fetcher {
	return NewFetcher(2*time.Second, "newsclip-test/0.1", logger.Nop())
}

func TestFillCompletesEmptyFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	article := &domain.Article{Link: srv.URL + "/article"}
	newTestFetcher().Fill(article)

	if article.Title != "OG Title" {
		t.Errorf("Title = %q, want OG Title", article.Title)
	}
	if article.Description != "OG description." {
		t.Errorf("Description = %q, want OG description.", article.Description)
	}
	if article.CoverImage != "https://cdn.example.com/cover.jpg" {
		t.Errorf("CoverImage = %q", article.CoverImage)
	}
	if article.Source != "Example News" {
		t.Errorf("Source = %q, want Example News", article.Source)
	}
}

func TestFillNeverOverwrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	article := &domain.Article{
		Link:        srv.URL + "/article",
		Title:       "Supplied Title",
		Description: "Supplied description",
		CoverImage:  "https://cdn.example.com/supplied.jpg",
	}
	newTestFetcher().Fill(article)

	if article.Title != "Supplied Title" {
		t.Errorf("Title overwritten: %q", article.Title)
	}
	if article.Description != "Supplied description" {
		t.Errorf("Description overwritten: %q", article.Description)
	}
}

func TestFillTitleFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Only Title</title></head><body></body></html>`))
	}))
	defer srv.Close()

	article := &domain.Article{Link: srv.URL}
	newTestFetcher().Fill(article)

	if article.Title != "Only Title" {
		t.Errorf("Title = %q, want fallback from <title>", article.Title)
	}
}

func TestFillFailuresLeaveArticleUntouched(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not html",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"title":"nope"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			article := &domain.Article{Link: srv.URL}
			newTestFetcher().Fill(article)

			if article.Title != "" || article.Description != "" {
				t.Errorf("article mutated on failure: %+v", article)
			}
		})
	}
}
