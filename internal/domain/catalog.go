package domain

import (
	"context"
	"fmt"
	"strings"
)

// FeatureCatalog is the ordered set of feature names the scoring service
// recognises. It is never mutated in place; a new fetch replaces it.
type FeatureCatalog struct {
	names []string
	index map[string]int
}

func NewFeatureCatalog(names []string) (FeatureCatalog, error) {
	index := make(map[string]int, len(names))

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return FeatureCatalog{}, &CatalogError{Message: fmt.Sprintf("feature %d has an empty name", i)}
		}

		if _, exists := index[name]; exists {
			return FeatureCatalog{}, &CatalogError{Message: fmt.Sprintf("duplicate feature name %q", name)}
		}

		index[name] = i
	}

	copied := make([]string, len(names))
	copy(copied, names)

	return FeatureCatalog{names: copied, index: index}, nil
}

// Names returns a copy of the feature names in fetch order
func (c FeatureCatalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

func (c FeatureCatalog) Len() int {
	return len(c.names)
}

func (c FeatureCatalog) IsEmpty() bool {
	return len(c.names) == 0
}

func (c FeatureCatalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// CatalogSource fetches the feature catalog from the scoring service
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (FeatureCatalog, error)
}
