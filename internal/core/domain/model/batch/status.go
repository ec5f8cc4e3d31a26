package batch

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

// Status is the lifecycle state of a batch.
type Status int

const (
	Unknown Status = iota
	Open
	Closed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	if s != Open && s != Closed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid batch status", s))
	}
	return nil
}

// Close transitions Open to Closed.
func (s Status) Close() (Status, error) {
	if s != Open {
		return 0, ErrInvalidStatusTransition.WithMessage("cannot move batch from %s to %s", s, Closed)
	}
	return Closed, nil
}
