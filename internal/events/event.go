package events

import (
	"time"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
	BookingDeleted       Type = "booking.deleted"
	PaymentCompleted     Type = "payment.completed"
)

// BookingEvent is the JSON payload written to the bookings topic, keyed by booking id.
type BookingEvent struct {
	Type          Type      `json:"type"`
	BookingID     string    `json:"bookingId"`
	PropertyID    string    `json:"propertyId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}
