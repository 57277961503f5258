package managers

import (
	"context"
	"errors"
	"net/url"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/pkg/clients/exopredict"
)

// ClassifyError maps a client failure onto the session's error taxonomy.
// fallback is used when an error response carries no detail.
func ClassifyError(err error, fallback string) error {
	var apiErr *exopredict.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Detail
		if detail == "" {
			detail = fallback
		}

		return &domain.ServiceError{
			StatusCode: apiErr.StatusCode,
			Detail:     detail,
			RequestID:  apiErr.RequestID,
			Err:        err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.TransportError{Message: domain.MessageServiceUnreachable, Err: err}
	}

	return &domain.TransportError{Message: domain.MessageUnexpectedResponse, Err: err}
}
