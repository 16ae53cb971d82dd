package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed import for the presentation layer.
type ErrorKind string

const (
	KindTooLarge             ErrorKind = "too_large"
	KindPersistenceRetryable ErrorKind = "persistence_retryable"
	KindPersistencePermanent ErrorKind = "persistence_permanent"
	KindUnknown              ErrorKind = "unknown"
)

// ErrTooLarge is wrapped by imports rejected before parsing.
var ErrTooLarge = errors.New("statement exceeds upload size limit")

// ImportError is the only error type Import returns.
type ImportError struct {
	Kind ErrorKind
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed (%s): %v", e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the user should be offered a retry.
func (e *ImportError) Retryable() bool {
	return e.Kind == KindPersistenceRetryable || e.Kind == KindUnknown
}

// classify turns a step error into an ImportError.
func classify(err error) *ImportError {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie
	}
	if errors.Is(err, ErrTooLarge) {
		return &ImportError{Kind: KindTooLarge, Err: err}
	}
	var r retryable
	if errors.As(err, &r) {
		if r.Retryable() {
			return &ImportError{Kind: KindPersistenceRetryable, Err: err}
		}
		return &ImportError{Kind: KindPersistencePermanent, Err: err}
	}
	return &ImportError{Kind: KindUnknown, Err: err}
}
