package sim

import (
	"errors"
	"fmt"
)

// Rejection kinds. Every error returned by a command wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrInvalidTarget     = errors.New("invalid target")
	ErrIllegalAction     = errors.New("illegal action")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrTurnViolation     = errors.New("turn violation")
)

// CommandError is a rejected command. State is unchanged when one is returned.
type CommandError struct {
	Op     CommandKind
	Kind   error
	Reason string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Reason)
}

func (e *CommandError) Unwrap() error { return e.Kind }

func reject(op CommandKind, kind error, format string, args ...any) error {
	return &CommandError{Op: op, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindName returns a stable short name for an error's rejection kind, or ""
// when err is not a command rejection.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, ErrIllegalAction):
		return "illegal_action"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, ErrTurnViolation):
		return "turn_violation"
	default:
		return ""
	}
}
