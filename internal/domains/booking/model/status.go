package model

import "slices"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Transitions lists every status a booking may move to from a given status.
// Terminal statuses map to nothing.
var Transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ParseStatus(value string) (Status, bool) {
	status := Status(value)

	return status, status.IsValid()
}

func (s Status) IsValid() bool {
	_, ok := Transitions[s]

	return ok
}

func (s Status) String() string {
	return string(s)
}

// AllowedTransitions returns the statuses reachable from s as strings.
func (s Status) AllowedTransitions() []string {
	next := Transitions[s]
	allowed := make([]string, 0, len(next))

	for _, status := range next {
		allowed = append(allowed, string(status))
	}

	return allowed
}

// CanTransitionTo reports whether next is reachable from s. Staying in the same status is not a transition.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(Transitions[s], next)
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(Transitions[s]) == 0
}

// HoldsDates reports whether a booking in this status blocks its dates for other guests.
func (s Status) HoldsDates() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that take part in conflict detection.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}
