package actionapi

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind string

const (
	// ErrKindTimeout means the upstream did not answer within the
	// configured timeout. Never retried: repeated timeouts usually mean
	// upstream overload, not a transient failure.
	ErrKindTimeout ErrorKind = "timeout"
	// ErrKindNetwork covers DNS and connection level failures. Retried.
	ErrKindNetwork ErrorKind = "network"
	// ErrKindHTTP is a non-200 HTTP status. 5xx is retried, 4xx is not.
	ErrKindHTTP ErrorKind = "http"
	// ErrKindBusiness means the envelope arrived with success=false.
	// Never retried: the transport succeeded, repeating reproduces the
	// same outcome.
	ErrKindBusiness ErrorKind = "business"
)

// Error is the typed failure surfaced by the client after the retry
// policy has run its course.
type Error struct {
	Kind    ErrorKind
	Status  int           // set for ErrKindHTTP
	Message string
	Elapsed time.Duration // set for ErrKindTimeout
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindTimeout:
		return fmt.Sprintf("action API timeout after %v", e.Elapsed)
	case ErrKindHTTP:
		return fmt.Sprintf("action API returned status %d: %s", e.Status, e.Message)
	case ErrKindBusiness:
		return fmt.Sprintf("action API error: %s", e.Message)
	default:
		return fmt.Sprintf("action API request failed: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError unwraps err into an *Error when the client produced it.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
