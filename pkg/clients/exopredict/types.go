package exopredict

import "io"

// FeaturesResponse is returned by GET /features
type FeaturesResponse struct {
	Features    []string `json:"features"`
	Count       int      `json:"count,omitempty"`
	Description string   `json:"description,omitempty"`
}

// PredictRequest is the body of POST /predict. Exactly one of KepID and
// Features must be set.
type PredictRequest struct {
	KepID    *int64             `json:"kepid,omitempty"`
	Features map[string]float64 `json:"features,omitempty"`
}

// PredictResponse is returned by POST /predict on success
type PredictResponse struct {
	ProbabilityOfPlanet float64 `json:"probability_of_planet"`
}

// PredictCSVRequest carries the file uploaded to POST /predict-csv
type PredictCSVRequest struct {
	FileName string
	Content  io.Reader
}

// PredictCSVResponse holds the augmented CSV returned by POST /predict-csv.
// Content is opaque bytes; it is never decoded as JSON.
type PredictCSVResponse struct {
	Content     []byte
	ContentType string
	FileName    string
	RequestID   string
}

// InfoResponse is returned by GET /
type InfoResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
	Usage     string            `json:"usage"`
}
