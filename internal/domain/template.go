package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

const (
	TemplateFileName    = "sample_exoplanet_data.csv"
	TemplateSampleRows  = 2
	PredictionsPrefix   = "predictions_"
	ContentTypeCSV      = "text/csv"
	ContentTypeOctetBin = "application/octet-stream"
)

// PredictionsFileName names the downloaded batch result for a source file
func PredictionsFileName(source string) string {
	return PredictionsPrefix + source
}

// BuildTemplateCSV writes a header of the catalog's names in fetch order
// followed by two all-zero rows.
func BuildTemplateCSV(catalog FeatureCatalog) ([]byte, error) {
	if catalog.IsEmpty() {
		return nil, ErrCatalogUnavailable
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(catalog.names); err != nil {
		return nil, fmt.Errorf("failed to write template header: %w", err)
	}

	zeros := make([]string, catalog.Len())
	for i := range zeros {
		zeros[i] = "0"
	}

	for i := 0; i < TemplateSampleRows; i++ {
		if err := writer.Write(zeros); err != nil {
			return nil, fmt.Errorf("failed to write template row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush template: %w", err)
	}

	return buf.Bytes(), nil
}
