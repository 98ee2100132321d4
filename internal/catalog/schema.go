package catalog

import "github.com/newsclip-dev/newsclip/internal/domain"

// Category groups articles in the YAML file.
// The structure is: - CategoryName: [ { link, title, ... } ]
type Category map[string][]domain.Article

// Config is the root structure of the article catalog file.
type Config []Category
