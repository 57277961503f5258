package exopredict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ClientInterface defines the operations of the exoplanet scoring service
type ClientInterface interface {
	GetInfo(ctx context.Context) (*InfoResponse, error)
	GetFeatures(ctx context.Context) (*FeaturesResponse, error)
	Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error)
	PredictCSV(ctx context.Context, req *PredictCSVRequest) (*PredictCSVResponse, error)
}

// Client provides a typed interface over the scoring service HTTP API
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	schemas    *responseSchemas
}

type requestIDKey struct{}

// WithRequestID attaches a request ID to ctx. The client sends it as the
// X-Request-ID header on every request made with that context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID stored by WithRequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewClient creates a new scoring service client with the given options
func NewClient(options ...ClientOption) *Client {
	config := DefaultConfig()

	for _, option := range options {
		option(config)
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	schemas, err := compileResponseSchemas()
	if err != nil {
		// The schemas are constants; a failure here means a broken build.
		log.Error().Err(err).Msg("failed to compile response schemas, responses will not be validated")
		schemas = &responseSchemas{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		schemas:    schemas,
	}
}

// BaseURL returns the scoring service base URL the client talks to
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// GetInfo retrieves the service banner from the root endpoint
func (c *Client) GetInfo(ctx context.Context) (*InfoResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get service info: %w", err)
	}

	var result InfoResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to process service info response: %w", err)
	}

	return &result, nil
}

// GetFeatures retrieves the ordered feature catalog
func (c *Client) GetFeatures(ctx context.Context) (*FeaturesResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/features", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get features: %w", err)
	}

	var result FeaturesResponse
	if err := c.handleValidatedResponse(resp, c.schemas.features, &result); err != nil {
		return nil, fmt.Errorf("failed to process features response: %w", err)
	}

	return &result, nil
}

// Predict scores a single object identified either by KepID or by a full feature mapping
func (c *Client) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	if (req.KepID == nil) == (req.Features == nil) {
		return nil, fmt.Errorf("exactly one of kepid or features is required")
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/predict", req)
	if err != nil {
		return nil, fmt.Errorf("failed to predict: %w", err)
	}

	var result PredictResponse
	if err := c.handleValidatedResponse(resp, c.schemas.predict, &result); err != nil {
		return nil, fmt.Errorf("failed to process predict response: %w", err)
	}

	return &result, nil
}

// PredictCSV uploads a CSV of feature vectors and returns the augmented CSV
func (c *Client) PredictCSV(ctx context.Context, req *PredictCSVRequest) (*PredictCSVResponse, error) {
	if req == nil || req.Content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	if req.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.doRawRequest(ctx, http.MethodPost, "/predict-csv", body.Bytes(), writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to predict csv: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newResponseError(resp, content)
	}

	return &PredictCSVResponse{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
		FileName:    fileNameFromDisposition(resp.Header.Get("Content-Disposition")),
		RequestID:   resp.Header.Get("X-Request-ID"),
	}, nil
}

// doRequest performs a JSON request with retry logic
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyBytes []byte
	contentType := ""

	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType = "application/json"
	}

	return c.doRawRequest(ctx, method, path, bodyBytes, contentType)
}

// doRawRequest sends bodyBytes as is. Network errors and gateway statuses are
// retried; any other response is handed back for the caller to decode.
func (c *Client) doRawRequest(ctx context.Context, method, path string, bodyBytes []byte, contentType string) (*http.Response, error) {
	url := c.config.BaseURL + path
	requestID := RequestIDFromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		var requestBody io.Reader
		if bodyBytes != nil {
			requestBody = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, requestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range c.config.DefaultHeaders {
			req.Header.Set(key, value)
		}

		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		if requestID != "" {
			req.Header.Set("X-Request-ID", requestID)
		}

		if c.config.UserAgent != "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			log.Debug().Err(err).Int("attempt", attempt).Str("path", path).Msg("request failed")
			continue
		}

		if isRetryableStatus(resp.StatusCode) && attempt < c.config.RetryAttempts {
			log.Warn().
				Int("status_code", resp.StatusCode).
				Int("attempt", attempt).
				Str("path", path).
				Str("request_id", requestID).
				Msg("gateway error, retrying")

			resp.Body.Close()
			lastErr = &Error{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("gateway error: %d", resp.StatusCode),
				RequestID:  requestID,
			}
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.config.RetryAttempts, lastErr)
}

// handleResponse processes the HTTP response and unmarshals JSON if successful
func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	return c.handleValidatedResponse(resp, nil, result)
}

// handleValidatedResponse is handleResponse with the success body checked
// against schema first
func (c *Client) handleValidatedResponse(resp *http.Response, schema *jsonschema.Schema, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newResponseError(resp, body)
	}

	if err := validateBody(schema, body); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

func newResponseError(resp *http.Response, body []byte) *Error {
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		Detail:     decodeDetail(body),
		Body:       string(body),
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
}

// decodeDetail extracts the service's error message. The detail field is a
// string for application errors and a list of {msg} objects for request
// validation errors.
func decodeDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var messages []string
		for _, item := range detail.Array() {
			if msg := item.Get("msg"); msg.Exists() {
				messages = append(messages, msg.String())
			}
		}
		return strings.Join(messages, "; ")
	}

	return ""
}

func fileNameFromDisposition(disposition string) string {
	const marker = "filename="

	start := strings.Index(disposition, marker)
	if start == -1 {
		return ""
	}

	name := disposition[start+len(marker):]
	if end := strings.Index(name, ";"); end != -1 {
		name = name[:end]
	}

	return strings.Trim(strings.TrimSpace(name), `"`)
}
