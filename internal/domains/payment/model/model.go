package model

import (
	"rentfy/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID              = "id"
	FieldBookingID       = "booking_id"
	FieldGuestID         = "guest_id"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldPaymentMethod   = "payment_method"
	FieldPaymentIntentID = "payment_intent_id"
	FieldReceiptURL      = "receipt_url"
	FieldStatus          = "status"
	FieldCreatedAt       = "created_at"

	DefaultCurrency = "USD"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusRefunded  = "REFUNDED"
)

type Payment struct {
	ID              string  `db:"id"`
	BookingID       string  `db:"booking_id"`
	GuestID         string  `db:"guest_id"`
	Amount          float64 `db:"amount"`
	Currency        string  `db:"currency"`
	PaymentMethod   *string `db:"payment_method"`
	PaymentIntentID *string `db:"payment_intent_id"`
	ReceiptURL      *string `db:"receipt_url"`
	Status          string  `db:"status"`
	model.Metadata
}

// PaymentDetail adds the booking, property and guest context shown with a payment.
type PaymentDetail struct {
	Payment
	PropertyID    string `column:"property_id" db:"property_id"    table:"bookings"`
	BookingStatus string `column:"status"      db:"booking_status" table:"bookings"`
	PropertyTitle string `column:"title"       db:"property_title" table:"properties"`
	GuestName     string `column:"name"        db:"guest_name"     table:"guests"`
	GuestEmail    string `column:"email"       db:"guest_email"    table:"guests"`
}

func (PaymentDetail) GetJoinQuery() string {
	return `JOIN bookings ON bookings.id = payments.booking_id
		JOIN properties ON properties.id = bookings.property_id
		JOIN users AS guests ON guests.id = payments.guest_id`
}
