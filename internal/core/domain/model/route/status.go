package route

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	InProgress
	Completed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case InProgress:
		return "InProgress"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	switch s {
	case Pending, InProgress, Completed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid route status", s))
	}
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

func (s Status) Start() (Status, error) {
	if s != Pending {
		return 0, invalidTransition(s, InProgress)
	}
	return InProgress, nil
}

func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, invalidTransition(s, Completed)
	}
	return Completed, nil
}

func (s Status) Cancel() (Status, error) {
	if s == Completed || s == Cancelled || s == Unknown {
		return 0, invalidTransition(s, Cancelled)
	}
	return Cancelled, nil
}

func invalidTransition(from, to Status) error {
	return ErrInvalidStatusTransition.WithMessage("cannot move route from %s to %s", from, to)
}
