package exopredict

import "fmt"

// Error is returned for every non-success HTTP response from the scoring service
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	// Detail is the service's structured error message, empty when the body
	// carried no decodable detail field.
	Detail    string `json:"detail"`
	RequestID string `json:"request_id"`
	Body      string `json:"body"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.RequestID != "" {
		return fmt.Sprintf("scoring service error (status %d, request %s): %s", e.StatusCode, e.RequestID, msg)
	}
	return fmt.Sprintf("scoring service error (status %d): %s", e.StatusCode, msg)
}

// IsRetryable returns true for gateway failures that may succeed on a second attempt
func (e *Error) IsRetryable() bool {
	return isRetryableStatus(e.StatusCode)
}

// IsClientError returns true if the error is a client error
func (e *Error) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError returns true if the error is a server error
func (e *Error) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// A 500 from the scoring service carries a detail message about the input
// (for example a malformed CSV), so only gateway statuses are retried.
func isRetryableStatus(code int) bool {
	return code == 502 || code == 503 || code == 504
}
