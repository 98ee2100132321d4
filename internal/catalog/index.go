package catalog

import (
	"sync"
	"time"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

// Index provides in-memory lookup of catalog articles by normalized URL.
type Index struct {
	mu         sync.RWMutex
	articles   map[string]*domain.Article // normalized URL -> Article
	lastReload time.Time
}

// NewIndex creates an empty catalog index.
func NewIndex() *Index {
	return &Index{
		articles: make(map[string]*domain.Article),
	}
}

// Update replaces all articles in the index.
func (idx *Index) Update(articles []*domain.Article) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.articles = make(map[string]*domain.Article, len(articles))
	for _, article := range articles {
		idx.articles[domain.Normalize(article.Link)] = article
	}
	idx.lastReload = time.Now()
}

// GetByURL retrieves an article by any capture of its URL.
func (idx *Index) GetByURL(rawURL string) (*domain.Article, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	article, ok := idx.articles[domain.Normalize(rawURL)]
	return article, ok
}

// GetAll returns all catalog articles.
func (idx *Index) GetAll() []*domain.Article {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	articles := make([]*domain.Article, 0, len(idx.articles))
	for _, article := range idx.articles {
		articles = append(articles, article)
	}
	return articles
}

// Count returns the number of articles in the index.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.articles)
}

// GetLastReload returns the timestamp of the last catalog reload.
func (idx *Index) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
