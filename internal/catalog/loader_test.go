package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

const testCatalog = `---
- politics:
    - link: https://news.example.com/politics/article-1
      title: Article One
      description: First article
      thumbnail: https://cdn.example.com/1-t.jpg
      coverImage: https://cdn.example.com/1-c.jpg
      publishedAt: "2026-08-20T10:00:00Z"
      source: Example News
      articleId: a-1
    - link: https://news.example.com/politics/article-2
      title: Article Two
      source: Example News
- sports:
    - link: https://news.example.com/sports/match-report/
      title: Match Report
      source: Example Sports
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test catalog file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(writeCatalog(t, testCatalog))

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 2 {
		t.Errorf("Load() returned %d categories, want 2", len(config))
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	loader := NewLoader("/nonexistent/catalog.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	loader := NewLoader(writeCatalog(t, "{not valid yaml: ["))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() expected error for invalid yaml")
	}
}

func TestMapArticles(t *testing.T) {
	loader := NewLoader(writeCatalog(t, testCatalog))
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	articles, err := NewMapper().MapArticles(config)
	if err != nil {
		t.Fatalf("MapArticles() error = %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("MapArticles() returned %d articles, want 3", len(articles))
	}

	byTitle := make(map[string]string)
	for _, a := range articles {
		byTitle[a.Title] = a.Category
	}
	if byTitle["Article One"] != "politics" {
		t.Errorf("category not stamped: got %q, want politics", byTitle["Article One"])
	}
	if byTitle["Match Report"] != "sports" {
		t.Errorf("category not stamped: got %q, want sports", byTitle["Match Report"])
	}
}

func TestMapArticlesSkipsEmptyLinks(t *testing.T) {
	config := Config{
		{"politics": {
			{Title: "No Link"},
			{Link: "https://news.example.com/ok", Title: "OK"},
		}},
	}

	articles, err := NewMapper().MapArticles(config)
	if err != nil {
		t.Fatalf("MapArticles() error = %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "OK" {
		t.Errorf("MapArticles() = %v, want only the linked article", articles)
	}
}

func TestMapArticlesEmptyConfig(t *testing.T) {
	if _, err := NewMapper().MapArticles(Config{}); err == nil {
		t.Error("MapArticles() expected error for empty config")
	}
}

func TestIndexLookupByNormalizedURL(t *testing.T) {
	idx := NewIndex()
	loader := NewLoader(writeCatalog(t, testCatalog))
	config, _ := loader.Load()
	articles, _ := NewMapper().MapArticles(config)
	idx.Update(articles)

	if idx.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", idx.Count())
	}

	// The catalog stored the URL with a trailing slash; the lookup
	// carries a fragment instead. Both are the same article.
	article, ok := idx.GetByURL("https://news.example.com/sports/match-report#comments")
	if !ok {
		t.Fatal("GetByURL() did not find article by equivalent URL")
	}
	if article.Title != "Match Report" {
		t.Errorf("GetByURL() = %q, want Match Report", article.Title)
	}

	if _, ok := idx.GetByURL("https://news.example.com/unknown"); ok {
		t.Error("GetByURL() found an article that is not in the catalog")
	}
}

func TestIndexUpdateOverwrites(t *testing.T) {
	idx := NewIndex()
	idx.Update([]*domain.Article{{Link: "https://news.example.com/a", Title: "A"}})
	idx.Update([]*domain.Article{
		{Link: "https://news.example.com/b", Title: "B"},
		{Link: "https://news.example.com/c", Title: "C"},
	})

	if idx.Count() != 2 {
		t.Errorf("Update() should replace, got %d articles want 2", idx.Count())
	}
	if _, ok := idx.GetByURL("https://news.example.com/a"); ok {
		t.Error("Update() should have dropped the old article")
	}
}
