package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers that translate errors into
// transport-level outcomes.
type Kind int

const (
	// KindProblem is an unexpected or external failure.
	KindProblem Kind = iota
	// KindValidation is bad input or an illegal state transition.
	KindValidation
	// KindNotFound is a reference to an aggregate that does not exist.
	KindNotFound
	// KindConflict is a violated precondition about relationship or version state.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	default:
		return "Problem"
	}
}

// DomainError is a structured business failure with a stable code.
//
// Two DomainErrors are considered the same error by errors.Is when their codes
// match, so a package can declare a template value and return a copy with a
// more specific message:
//
//	var ErrInvalidTransition = errs.NewValidationError("Order.InvalidTransition", "invalid status transition")
//
//	return ErrInvalidTransition.WithMessage("cannot move order from %s to %s", from, to)
//
// and callers can still match with errors.Is(err, ErrInvalidTransition).
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func NewDomainError(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

func NewProblemError(code, message string) *DomainError {
	return NewDomainError(KindProblem, code, message)
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying a formatted message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// KindOf classifies err, looking through wrapped and joined errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindProblem
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	switch {
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrVersionIsInvalid):
		return KindConflict
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindValidation
	}

	return KindProblem
}

// CodeOf returns the stable code for err, falling back to a code derived from its kind.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	switch KindOf(err) {
	case KindNotFound:
		return "General.NotFound"
	case KindConflict:
		return "General.Conflict"
	case KindValidation:
		return "General.Validation"
	default:
		return "General.Problem"
	}
}
