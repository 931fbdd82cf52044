package model

import (
	"rentfy/shared/dto"
	"rentfy/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldPropertyID    = "property_id"
	FieldGuestID       = "guest_id"
	FieldHostID        = "host_id"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldTotalPrice    = "total_price"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldCreatedAt     = "created_at"

	// CacheGet prefixes the cached copy of a single booking.
	CacheGet = "booking:get"

	argCurrentStatus = "current_status"
	argLockedPayment = "locked_payment_status"
	argNewCheckIn    = "new_check_in"
	argNewCheckOut   = "new_check_out"
)

type Booking struct {
	ID            string        `db:"id"`
	PropertyID    string        `db:"property_id"`
	GuestID       string        `db:"guest_id"`
	HostID        string        `db:"host_id"`
	CheckIn       time.Time     `db:"check_in"`
	CheckOut      time.Time     `db:"check_out"`
	TotalPrice    float64       `db:"total_price"`
	Status        Status        `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	model.Metadata
}

// BookingDetail is a booking joined with the summaries shown on a single booking.
type BookingDetail struct {
	Booking
	PropertyTitle string  `column:"title"  db:"property_title" table:"properties"`
	PropertyCity  string  `column:"city"   db:"property_city"  table:"properties"`
	GuestName     string  `column:"name"   db:"guest_name"     table:"guests"`
	GuestEmail    string  `column:"email"  db:"guest_email"    table:"guests"`
	HostName      string  `column:"name"   db:"host_name"      table:"hosts"`
	HostEmail     string  `column:"email"  db:"host_email"     table:"hosts"`
	ReviewID      *string `column:"id"     db:"review_id"      table:"reviews"`
}

func (BookingDetail) GetJoinQuery() string {
	return `JOIN properties ON properties.id = bookings.property_id
		JOIN users AS guests ON guests.id = bookings.guest_id
		JOIN users AS hosts ON hosts.id = bookings.host_id
		LEFT JOIN reviews ON reviews.booking_id = bookings.id`
}

// Overlaps is the inclusive date-range test used for conflict detection.
// Ranges that share a boundary day overlap, so same-day turnover is rejected.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// OverlapFilter selects the active bookings of a property that overlap [checkIn, checkOut]
// under the same inclusive test as Overlaps.
func OverlapFilter(propertyID string, checkIn, checkOut time.Time) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: FieldPropertyID, Value: propertyID, Operator: dto.FilterOperatorEq, Table: TableName},
			dto.Filter{Field: FieldStatus, Value: ActiveStatuses(), Operator: dto.FilterOperatorIn, Table: TableName},
			dto.Filter{
				Field:    FieldCheckIn,
				ArgName:  argNewCheckOut,
				Value:    checkOut.Format(time.DateOnly),
				Operator: dto.FilterOperatorLessEq,
				Table:    TableName,
			},
			dto.Filter{
				Field:    FieldCheckOut,
				ArgName:  argNewCheckIn,
				Value:    checkIn.Format(time.DateOnly),
				Operator: dto.FilterOperatorGreaterEq,
				Table:    TableName,
			},
		},
	}
}

// StatusFilter matches a booking only while it still has the status it was read with.
func StatusFilter(id string, current Status) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: FieldID, Value: id, Operator: dto.FilterOperatorEq, Table: TableName},
			dto.Filter{Field: FieldStatus, ArgName: argCurrentStatus, Value: string(current), Operator: dto.FilterOperatorEq, Table: TableName},
		},
	}
}

// UnpaidStatusFilter narrows StatusFilter to bookings that are not PAID yet. Price changes
// use it so a payment landing between read and write makes the update match nothing.
func UnpaidStatusFilter(id string, current Status) dto.FilterGroup {
	filter := StatusFilter(id, current)
	filter.Filters = append(filter.Filters, dto.Filter{
		Field:    FieldPaymentStatus,
		ArgName:  argLockedPayment,
		Value:    string(PaymentPaid),
		Operator: dto.FilterOperatorNotEq,
		Table:    TableName,
	})

	return filter
}
