package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream classification.
var (
	ErrRateLimited        = errors.New("upstream rate limited")
	ErrRateLimitExhausted = errors.New("upstream rate limit retries exhausted")
	ErrUpstream           = errors.New("upstream error")
	ErrNetwork            = errors.New("upstream network error")
	ErrNotFound           = errors.New("upstream resource not found")
)

// ErrorKind is a coarse-grained categorization of an upstream failure.
type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited"
	KindNotFound    ErrorKind = "not_found"
	KindBadStatus   ErrorKind = "bad_status"
	KindMalformed   ErrorKind = "malformed_payload"
	KindNetwork     ErrorKind = "network"
	KindCanceled    ErrorKind = "canceled"
)

// Error wraps an upstream failure with the operation and its kind.
type Error struct {
	Op         string
	Kind       ErrorKind
	StatusCode int // zero when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("upstream %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is maps the error kind onto the package sentinels.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUpstream:
		return e.Kind == KindBadStatus || e.Kind == KindMalformed
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

// IsKind reports whether err is an upstream Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind == kind
	}
	return false
}

// ExhaustedError is returned when every attempt was rate limited.
type ExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("service unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is matches ErrRateLimitExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRateLimitExhausted
}
