package client

import (
	"errors"
	"fmt"
)

// ErrKind classifies remote-call failures.
type ErrKind string

const (
	KindBadRequest        ErrKind = "bad_request"
	KindNotFound          ErrKind = "not_found"
	KindRateLimited       ErrKind = "rate_limited"
	KindServerError       ErrKind = "server_error"
	KindAuthFailure       ErrKind = "auth_failure"
	KindNetworkFailure    ErrKind = "network_failure"
	KindMalformedResponse ErrKind = "malformed_response"
)

// APIError is a classified failure from the remote service.
type APIError struct {
	Kind       ErrKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// kindForStatus maps remote status codes onto the error taxonomy. The mapping
// is fixed; anything unmapped is a malformed response.
func kindForStatus(status int) ErrKind {
	switch {
	case status == 400:
		return KindBadRequest
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindMalformedResponse
	}
}
