package order

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota
	Pending
	InTransit
	Delivered
	Cancelled
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		InTransit: "InTransit",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
		Failed:    "Failed",
	}
}

// Validate rejects Unknown and any value outside the enumeration.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// MarkAsInTransit transitions Pending -> InTransit.
func (s Status) MarkAsInTransit() (Status, error) {
	return s.transition(InTransit, Pending)
}

// Cancel transitions Pending or InTransit -> Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.transition(Cancelled, Pending, InTransit)
}

// Deliver transitions InTransit -> Delivered.
func (s Status) Deliver() (Status, error) {
	return s.transition(Delivered, InTransit)
}

// Fail transitions InTransit -> Failed.
func (s Status) Fail() (Status, error) {
	return s.transition(Failed, InTransit)
}

func (s Status) transition(to Status, allowedFrom ...Status) (Status, error) {
	for _, from := range allowedFrom {
		if s == from {
			return to, nil
		}
	}
	return 0, ErrInvalidStatusTransition.WithMessage("cannot move order from %s to %s", s, to)
}

// ParseStatus returns the status with the given name, as produced by String.
func ParseStatus(name string) (Status, error) {
	for s, str := range getStatusStrings() {
		if s != Unknown && str == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}
