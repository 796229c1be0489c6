package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a channel name matches nothing upstream.
	ErrNotFound = errors.New("not found")

	// ErrUpstream matches every *UpstreamError through errors.Is.
	ErrUpstream = errors.New("upstream error")

	// ErrSessionNotFound is returned when chatting against an unknown session key.
	ErrSessionNotFound = errors.New("Session not found")
)

// UpstreamError reports a failed call to an external provider (network,
// quota, auth or timeout). Op names the operation that failed.
type UpstreamError struct {
	Op  string
	Err error
}

// NewUpstreamError wraps err as an UpstreamError for operation op.
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: upstream failure", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
