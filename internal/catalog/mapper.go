package catalog

import (
	"fmt"

	"github.com/newsclip-dev/newsclip/internal/domain"
)

// Mapper converts catalog config to domain articles.
type Mapper struct{}

// NewMapper creates a new catalog mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapArticles flattens the category structure into a list of articles.
// The category name is stamped onto each article; entries without a
// link are skipped.
func (m *Mapper) MapArticles(config Config) ([]*domain.Article, error) {
	articles := make([]*domain.Article, 0)

	for _, category := range config {
		for categoryName, entries := range category {
			for i := range entries {
				entry := entries[i]
				if domain.Normalize(entry.Link) == "" {
					continue
				}
				entry.Category = categoryName
				articles = append(articles, &entry)
			}
		}
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("no valid articles found in catalog")
	}

	return articles, nil
}
