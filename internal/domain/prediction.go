package domain

import (
	"context"
	"io"
)

// BatchPayload is the opaque augmented CSV returned by a batch prediction
type BatchPayload struct {
	Content     []byte
	ContentType string
}

// PredictionService is the scoring service as seen by the session. Errors are
// classified as *ServiceError or *TransportError.
type PredictionService interface {
	PredictByKepID(ctx context.Context, kepID int64) (PredictionResult, error)
	PredictByFeatures(ctx context.Context, features map[string]float64) (PredictionResult, error)
	PredictBatch(ctx context.Context, params PredictBatchParams) (BatchPayload, error)
}

type PredictBatchParams struct {
	FileName string
	Content  io.Reader
}

// Artifact is a binary file handed to the operator
type Artifact struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ArtifactSink delivers an artifact and returns where it was delivered. Any
// transient resource acquired for the delivery is released before Deliver
// returns, whether or not it succeeded.
type ArtifactSink interface {
	Deliver(ctx context.Context, artifact Artifact) (string, error)
}

// SpreadsheetExporter converts a CSV artifact into a workbook twin
type SpreadsheetExporter interface {
	Export(csvContent []byte) ([]byte, error)
}
