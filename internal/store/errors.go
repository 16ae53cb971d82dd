package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PersistenceError is returned by every Store write. Transient errors may
// succeed when the whole operation is retried.
type PersistenceError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *PersistenceError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "retryable"
	}
	return fmt.Sprintf("%s: %s persistence error: %v", e.Op, kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the operation can be retried.
func (e *PersistenceError) Retryable() bool {
	return e.Transient
}

// Wrap classifies err for op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Transient: IsRetryable(err), Err: err}
}

// Postgres error codes that are retryable outside their class prefix.
var retryableCodes = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// IsRetryable reports whether err is a transient database failure:
// connection exceptions (class 08), insufficient resources (class 53),
// shutdowns, serialization failures, deadlocks and network timeouts.
// Data exceptions (class 22) and constraint violations (class 23) are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"):
			return true
		case retryableCodes[pgErr.Code]:
			return true
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
