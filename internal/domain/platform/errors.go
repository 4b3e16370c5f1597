package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: DNS, refused
	// connections, timeouts. The stored credential stays untouched.
	ErrUnavailable = errors.New("platform: temporarily unavailable")
	// ErrRequestFailed marks HTTP status failures other than auth.
	ErrRequestFailed = errors.New("platform: request failed")
	// ErrUnauthorized marks 401/403 responses. Session restore treats
	// it as silent expiry.
	ErrUnauthorized = errors.New("platform: session unauthorized")
	// ErrInvalidResponse marks bodies that do not decode.
	ErrInvalidResponse = errors.New("platform: invalid response")
)

// RequestError is an HTTP status failure with whatever the platform's
// error envelope carried. Unwrap yields ErrUnauthorized for 401/403
// and ErrRequestFailed for everything else, so callers can branch with
// errors.Is.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("platform: request failed (HTTP %d)", e.StatusCode)
}

// Unwrap maps the status class onto the package sentinels.
func (e *RequestError) Unwrap() error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return ErrUnauthorized
	}
	return ErrRequestFailed
}

// ErrorMessage reduces a gateway error to the one line the error slot
// of the affected concern shows. Platform envelope messages win;
// transport failures fall back to a generic line.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return "The service is unreachable. Check the connection and try again."
	case errors.Is(err, ErrUnauthorized):
		return "The session is no longer valid. Sign in again."
	case errors.Is(err, ErrInvalidResponse):
		return "The service returned an unexpected response."
	}
	return err.Error()
}
