package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrWrongMode          = errors.New("submit action does not match the active mode")
	ErrCatalogUnavailable = errors.New("feature catalog is not loaded")
	ErrUnknownFeature     = errors.New("feature is not in the catalog")
)

const (
	MessagePredictionFailed    = "Prediction failed"
	MessageCSVPredictionFailed = "CSV prediction failed"
	MessageServiceUnreachable  = "Could not reach the prediction service"
	MessageUnexpectedResponse  = "Unexpected response from the prediction service"
	MessageCatalogFailed       = "Could not load the feature list"
)

// InputError is detected locally and never reaches the network
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// ValidationError reports every catalog feature whose cell is missing or not
// a floating-point literal, in catalog order.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("Please fill in all feature values (missing: %s)", strings.Join(e.Missing, ", ")))
	}

	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("Feature values must be numbers (invalid: %s)", strings.Join(e.Invalid, ", ")))
	}

	return strings.Join(parts, "; ")
}

// Features returns all offending feature names, missing ones first
func (e *ValidationError) Features() []string {
	return append(append([]string{}, e.Missing...), e.Invalid...)
}

// IntakeError rejects a selected file before it is staged
type IntakeError struct {
	FileName string
	Message  string
}

func (e *IntakeError) Error() string {
	return e.Message
}

type CatalogError struct {
	Message string
}

func (e *CatalogError) Error() string {
	return "invalid feature catalog: " + e.Message
}

// ServiceError is a non-success HTTP response from the scoring service
type ServiceError struct {
	StatusCode int
	Detail     string
	RequestID  string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Detail
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// TransportError covers network failures and undecodable responses
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the operator-facing message for err. It is never empty
// for a non-nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		inputErr      *InputError
		validationErr *ValidationError
		intakeErr     *IntakeError
		serviceErr    *ServiceError
		transportErr  *TransportError
	)

	switch {
	case errors.As(err, &inputErr):
		return inputErr.Message
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &intakeErr):
		return intakeErr.Message
	case errors.As(err, &serviceErr):
		if serviceErr.Detail != "" {
			return serviceErr.Detail
		}
		return MessagePredictionFailed
	case errors.As(err, &transportErr):
		if transportErr.Message != "" {
			return transportErr.Message
		}
		return MessageServiceUnreachable
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return MessagePredictionFailed
}
