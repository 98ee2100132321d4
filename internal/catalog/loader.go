// Package catalog supplies Article objects to the bookmark layer from a
// YAML file: the news portal's article feed, reduced to the fields the
// bookmark records denormalize.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the article catalog file.
type Loader struct {
	filePath string
}

// NewLoader creates a catalog loader for the given path.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the catalog file.
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return config, nil
}
