package dto

import (
	"net/http"
	"rentfy/internal/domains/booking/model"
	propertyModel "rentfy/internal/domains/property/model"
	userModel "rentfy/internal/domains/user/model"
	userDto "rentfy/internal/domains/user/model/dto"
	"rentfy/shared"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
	"time"

	"github.com/google/uuid"
)

const hoursPerDay = 24

type CreateBookingRequest struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	GuestID    string  `json:"guestId"    validate:"required"`
	HostID     string  `json:"hostId"     validate:"required"`
	CheckIn    string  `json:"checkIn"    validate:"required"`
	CheckOut   string  `json:"checkOut"   validate:"required"`
	TotalPrice float64 `json:"totalPrice" validate:"required,gt=0"`
}

// ToModel parses the stay and builds a PENDING, UNPAID booking.
// It fails with a validation error unless checkOut is strictly after checkIn.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	checkIn, err := ParseDate(c.CheckIn)
	if err != nil {
		return model.Booking{}, failure.Validation("checkIn must be a date (YYYY-MM-DD)", map[string]any{ //nolint:wrapcheck
			"checkIn": c.CheckIn,
		})
	}

	checkOut, err := ParseDate(c.CheckOut)
	if err != nil {
		return model.Booking{}, failure.Validation("checkOut must be a date (YYYY-MM-DD)", map[string]any{ //nolint:wrapcheck
			"checkOut": c.CheckOut,
		})
	}

	if !checkOut.After(checkIn) {
		return model.Booking{}, failure.Validation("checkOut must be after checkIn", map[string]any{ //nolint:wrapcheck
			"checkIn":  checkIn.Format(time.DateOnly),
			"checkOut": checkOut.Format(time.DateOnly),
		})
	}

	return model.Booking{
		ID:            uuid.NewString(),
		PropertyID:    c.PropertyID,
		GuestID:       c.GuestID,
		HostID:        c.HostID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalPrice:    c.TotalPrice,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}, nil
}

// ParseDate accepts a calendar date or an RFC3339 timestamp and keeps the date part.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

type UpdateBookingRequest struct {
	Status     *string  `json:"status"     validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	TotalPrice *float64 `json:"totalPrice" validate:"omitempty,gt=0"`
}

func (u UpdateBookingRequest) IsEmpty() bool {
	return u.Status == nil && u.TotalPrice == nil
}

type PropertySummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	City  string `json:"city"`
}

type ReviewSummary struct {
	ID string `json:"id"`
}

type BookingResponse struct {
	ID            string           `json:"id"`
	PropertyID    string           `json:"propertyId"`
	GuestID       string           `json:"guestId"`
	HostID        string           `json:"hostId"`
	CheckIn       string           `json:"checkIn"`
	CheckOut      string           `json:"checkOut"`
	Nights        int              `json:"nights"`
	TotalPrice    float64          `json:"totalPrice"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	Property      *PropertySummary `json:"property,omitempty"`
	Guest         *userDto.Summary `json:"guest,omitempty"`
	Host          *userDto.Summary `json:"host,omitempty"`
	Review        *ReviewSummary   `json:"review"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.PropertyID = booking.PropertyID
	r.GuestID = booking.GuestID
	r.HostID = booking.HostID
	r.CheckIn = booking.CheckIn.Format(time.DateOnly)
	r.CheckOut = booking.CheckOut.Format(time.DateOnly)
	r.Nights = int(booking.CheckOut.Sub(booking.CheckIn).Hours() / hoursPerDay)
	r.TotalPrice = booking.TotalPrice
	r.Status = booking.Status.String()
	r.PaymentStatus = string(booking.PaymentStatus)
	r.Metadata.FromModel(booking.Metadata)
}

func (r *BookingResponse) FromDetail(detail model.BookingDetail) {
	r.FromModel(detail.Booking)

	r.Property = &PropertySummary{ID: detail.PropertyID, Title: detail.PropertyTitle, City: detail.PropertyCity}
	r.Guest = &userDto.Summary{ID: detail.GuestID, Name: detail.GuestName, Email: detail.GuestEmail}
	r.Host = &userDto.Summary{ID: detail.HostID, Name: detail.HostName, Email: detail.HostEmail}

	if detail.ReviewID != nil {
		r.Review = &ReviewSummary{ID: *detail.ReviewID}
	}
}

// WithParties attaches summaries already loaded by the caller.
func (r *BookingResponse) WithParties(property propertyModel.Property, guest, host userModel.User) {
	r.Property = &PropertySummary{ID: property.ID, Title: property.Title, City: property.City}
	r.Guest = &userDto.Summary{}
	r.Guest.FromModel(guest)
	r.Host = &userDto.Summary{}
	r.Host.FromModel(host)
}

type GetBookingsResponse struct {
	Pagination gDto.Pagination   `json:"pagination"`
	Bookings   []BookingResponse `json:"bookings"`
}

func (r *GetBookingsResponse) FromDetails(details []model.BookingDetail, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params.Page, params.Limit, total)

	r.Bookings = make([]BookingResponse, len(details))
	for i, detail := range details {
		r.Bookings[i].FromDetail(detail)
	}
}

// BookingFilter holds the optional listing filters, combined with AND.
type BookingFilter struct {
	GuestID string
	HostID  string
	Status  string
}

func (f *BookingFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.GuestID = query.Get(constant.RequestParamGuestID)
	f.HostID = query.Get(constant.RequestParamHostID)
	f.Status = query.Get(constant.RequestParamStatus)

	if err := validateIDFilter(constant.RequestParamGuestID, f.GuestID); err != nil {
		return err
	}

	if err := validateIDFilter(constant.RequestParamHostID, f.HostID); err != nil {
		return err
	}

	if f.Status != "" {
		if _, ok := model.ParseStatus(f.Status); !ok {
			return failure.Validation("invalid status filter", map[string]any{ //nolint:wrapcheck
				"status":  f.Status,
				"allowed": []string{"PENDING", "CONFIRMED", "COMPLETED", "CANCELLED"},
			})
		}
	}

	return nil
}

func validateIDFilter(param, value string) error {
	if value == "" || shared.IsUUID(value) {
		return nil
	}

	return failure.Validation("invalid "+param+" filter", map[string]any{ //nolint:wrapcheck
		param: value,
	})
}

func (f *BookingFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.GuestID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldGuestID, Value: f.GuestID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.HostID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldHostID, Value: f.HostID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
