package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PlanetThreshold is exclusive: a probability must exceed it to be a planet
const PlanetThreshold = 0.5

type Verdict string

const (
	VerdictPlanet    Verdict = "PLANET"
	VerdictNotPlanet Verdict = "NOT_PLANET"
)

func VerdictFor(probability float64) Verdict {
	if probability > PlanetThreshold {
		return VerdictPlanet
	}
	return VerdictNotPlanet
}

// DisplayProbability renders a probability as a percentage with two decimals
func DisplayProbability(probability float64) string {
	return fmt.Sprintf("%.2f%%", probability*100)
}

// PredictionResult is the outcome of a single-item prediction
type PredictionResult struct {
	Probability float64
}

func (r PredictionResult) Verdict() Verdict {
	return VerdictFor(r.Probability)
}

func (r PredictionResult) Display() string {
	return DisplayProbability(r.Probability)
}

// BatchResult is the outcome of a batch prediction once the artifact has been
// delivered to the operator.
type BatchResult struct {
	SourceFileName string
	FileName       string
	Path           string
	Summary        BatchSummary
}

// BatchSummary counts the rows of an augmented predictions CSV
type BatchSummary struct {
	Rows       int
	Planets    int
	NotPlanets int
}

// SummarizeBatch reads the verdict column of an augmented predictions CSV
func SummarizeBatch(content []byte) (BatchSummary, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return BatchSummary{}, fmt.Errorf("predictions file is empty")
		}
		return BatchSummary{}, fmt.Errorf("failed to read header: %w", err)
	}

	verdictColumn := -1
	for i, column := range header {
		if strings.TrimSpace(column) == "verdict" {
			verdictColumn = i
		}
	}

	if verdictColumn == -1 {
		return BatchSummary{}, fmt.Errorf("predictions file has no verdict column")
	}

	var summary BatchSummary
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to parse row %d: %w", summary.Rows+1, err)
		}

		summary.Rows++
		if verdictColumn >= len(record) {
			continue
		}

		switch Verdict(strings.TrimSpace(record[verdictColumn])) {
		case VerdictPlanet:
			summary.Planets++
		case VerdictNotPlanet:
			summary.NotPlanets++
		}
	}

	return summary, nil
}
