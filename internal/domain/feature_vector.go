package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell is one feature of the working draft
type Cell struct {
	Name  string
	Value string
}

// FeatureVector is the custom mode's working draft: one raw string cell per
// catalog feature, keyed by exactly the catalog's names.
type FeatureVector struct {
	catalog FeatureCatalog
	cells   map[string]string
}

// NewFeatureVector returns a vector with every cell of catalog unset
func NewFeatureVector(catalog FeatureCatalog) *FeatureVector {
	cells := make(map[string]string, catalog.Len())
	for _, name := range catalog.names {
		cells[name] = ""
	}

	return &FeatureVector{catalog: catalog, cells: cells}
}

// SetCell stores raw for name. Names outside the catalog are rejected without
// touching the vector.
func (v *FeatureVector) SetCell(name, raw string) error {
	if !v.catalog.Contains(name) {
		return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}

	v.cells[name] = raw
	return nil
}

// Fill overwrites every cell named in values. Unknown names are ignored so a
// defaults table built for a different catalog can be applied safely.
func (v *FeatureVector) Fill(values map[string]string) {
	for name, value := range values {
		if v.catalog.Contains(name) {
			v.cells[name] = value
		}
	}
}

func (v *FeatureVector) Get(name string) (string, bool) {
	value, ok := v.cells[name]
	return value, ok
}

// Cells returns the draft in catalog order
func (v *FeatureVector) Cells() []Cell {
	cells := make([]Cell, 0, len(v.catalog.names))
	for _, name := range v.catalog.names {
		cells = append(cells, Cell{Name: name, Value: v.cells[name]})
	}
	return cells
}

// ToNumericVector converts the draft for submission. It succeeds only when
// every catalog feature holds a non-empty floating-point literal.
func (v *FeatureVector) ToNumericVector() (map[string]float64, error) {
	values := make(map[string]float64, len(v.catalog.names))
	validationErr := &ValidationError{}

	for _, name := range v.catalog.names {
		raw := strings.TrimSpace(v.cells[name])
		if raw == "" {
			validationErr.Missing = append(validationErr.Missing, name)
			continue
		}

		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			validationErr.Invalid = append(validationErr.Invalid, name)
			continue
		}

		values[name] = parsed
	}

	if len(validationErr.Missing) > 0 || len(validationErr.Invalid) > 0 {
		return nil, validationErr
	}

	return values, nil
}
