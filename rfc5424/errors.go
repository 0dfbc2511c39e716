package rfc5424

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel for every validation failure. Callers
// that do not care which field was rejected can match it with
// errors.Is; the concrete error is always a *FieldError naming the
// offending field.
var ErrMalformed = errors.New("malformed syslog message")

// FieldError reports a single field that failed validation. Encoding
// stops before any output is written, so a FieldError guarantees the
// sink received zero bytes.
type FieldError struct {
	Field  string // e.g. "priority", "sd-id", "timestamp.month"
	Value  string // offending value, rendered as text
	Reason string // violated constraint
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed syslog message: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrMalformed
}

func fieldErr(field, value, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}
