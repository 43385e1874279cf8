package api

import (
	"errors"
	"fmt"
)

// Kind classifies a remote failure. The board engine handles every kind the
// same way (rollback + surface); classification only shapes the message and
// lets tests assert on cause.
type Kind string

const (
	KindNetwork    Kind = "network"    // connectivity, timeout, 5xx
	KindNotFound   Kind = "not_found"  // item vanished server-side
	KindConflict   Kind = "conflict"   // server rejected the transition
	KindValidation Kind = "validation" // server rejected the payload
)

// Error is a classified remote failure.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport-level failures
	Op     string // short operation name, e.g. "update status"
	Err    error  // underlying cause, may be nil for pure status errors
	Body   string // truncated response body, for logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// kindOf extracts the classification from any error chain.
// Unclassified errors count as network failures.
func kindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// IsNotFound reports whether err is a not-found remote failure.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsConflict reports whether err is a rejected-transition remote failure.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// IsValidation reports whether err is a rejected-payload remote failure.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// kindForStatus maps an HTTP status code to an error kind.
func kindForStatus(status int) Kind {
	switch status {
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	case 400, 422:
		return KindValidation
	}
	return KindNetwork
}
