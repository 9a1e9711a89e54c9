package domain

import (
	"errors"
	"fmt"
	"strings"
)

// The four error kinds every core operation can surface. Stores and services
// return these (usually wrapped with a human-readable message) so the HTTP
// layer can translate them into stable response codes without inspecting
// message text.
//
//   - ErrValidation: malformed or missing input, rejected before any write.
//   - ErrReference:  a referenced parent record is absent or belongs to a
//     different user. Absent and not-owned are deliberately indistinguishable.
//   - ErrNotFound:   the target record is absent or not owned by the caller.
//   - ErrConflict:   a business rule forbids the requested transition or
//     deletion in the current state.
var (
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("invalid reference")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ErrDuplicateNumber signals a policy/claim number collision at commit time.
// It never reaches callers: the issuing service retries with a fresh candidate.
var ErrDuplicateNumber = errors.New("duplicate number")

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrValidation, args)...)
}

// Referencef wraps ErrReference with a formatted message. The message should
// name the failing reference, e.g. "invalid landlord".
func Referencef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrReference, args)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrNotFound, args)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrConflict, args)...)
}

func prepend(err error, args []any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, err)
	return append(out, args...)
}

// Message returns err's human-readable text with the leading kind sentinel
// trimmed, suitable for returning to a caller: "conflict: policy has active
// claims" becomes "policy has active claims".
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, kind := range []error{ErrValidation, ErrReference, ErrNotFound, ErrConflict} {
		if prefix := kind.Error() + ": "; strings.HasPrefix(text, prefix) {
			return text[len(prefix):]
		}
	}
	return text
}

// Kind returns the stable machine-readable code for err, or "" when err does
// not carry one of the domain kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrReference):
		return "REFERENCE_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return ""
	}
}
