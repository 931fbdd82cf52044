package dto

import (
	"net/http"
	"rentfy/internal/domains/payment/model"
	userDto "rentfy/internal/domains/user/model/dto"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
	"slices"

	"github.com/google/uuid"
)

var statuses = []string{model.StatusPending, model.StatusCompleted, model.StatusFailed, model.StatusRefunded}

type CreatePaymentRequest struct {
	BookingID     string  `json:"bookingId"     validate:"required"`
	GuestID       string  `json:"guestId"       validate:"required"`
	Amount        float64 `json:"amount"        validate:"required,gt=0"`
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,max=50"`
}

func (c *CreatePaymentRequest) ToModel(user string) model.Payment {
	return model.Payment{
		ID:            uuid.NewString(),
		BookingID:     c.BookingID,
		GuestID:       c.GuestID,
		Amount:        c.Amount,
		Currency:      model.DefaultCurrency,
		PaymentMethod: c.PaymentMethod,
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdatePaymentRequest patches a payment. Receipt is a base64 data url that is archived
// to object storage; only its public url is persisted.
type UpdatePaymentRequest struct {
	Status          *string `json:"status"          validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	PaymentIntentID *string `json:"paymentIntentId" validate:"omitempty,max=255"`
	Receipt         *string `json:"receipt"         validate:"omitempty,mimetypes=image/png image/jpeg application/pdf,maxfilesize=2"`
}

func (u UpdatePaymentRequest) IsEmpty() bool {
	return u.Status == nil && u.PaymentIntentID == nil && u.Receipt == nil
}

// WebhookRequest is the provider callback body. Intent events carry the intent under
// data.object, the generic completion event carries it directly under data.
type WebhookRequest struct {
	Type string      `json:"type" validate:"required"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	ID     string         `json:"id"`
	Object *WebhookObject `json:"object"`
}

type WebhookObject struct {
	ID         string `json:"id"`
	ReceiptURL string `json:"receipt_url"`
}

// IntentID returns the payment intent the event refers to.
func (w WebhookRequest) IntentID() string {
	if w.Data.Object != nil && w.Data.Object.ID != "" {
		return w.Data.Object.ID
	}

	return w.Data.ID
}

func (w WebhookRequest) ReceiptURL() string {
	if w.Data.Object != nil {
		return w.Data.Object.ReceiptURL
	}

	return ""
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type BookingSummary struct {
	ID            string `json:"id"`
	Status        string `json:"status,omitempty"`
	PropertyID    string `json:"propertyId,omitempty"`
	PropertyTitle string `json:"propertyTitle,omitempty"`
}

type PaymentResponse struct {
	ID              string           `json:"id"`
	BookingID       string           `json:"bookingId"`
	GuestID         string           `json:"guestId"`
	Amount          float64          `json:"amount"`
	Currency        string           `json:"currency"`
	PaymentMethod   *string          `json:"paymentMethod"`
	PaymentIntentID *string          `json:"paymentIntentId"`
	ReceiptURL      *string          `json:"receiptUrl"`
	Status          string           `json:"status"`
	Booking         *BookingSummary  `json:"booking,omitempty"`
	Guest           *userDto.Summary `json:"guest,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(payment model.Payment) {
	r.ID = payment.ID
	r.BookingID = payment.BookingID
	r.GuestID = payment.GuestID
	r.Amount = payment.Amount
	r.Currency = payment.Currency
	r.PaymentMethod = payment.PaymentMethod
	r.PaymentIntentID = payment.PaymentIntentID
	r.ReceiptURL = payment.ReceiptURL
	r.Status = payment.Status
	r.Metadata.FromModel(payment.Metadata)
}

func (r *PaymentResponse) FromDetail(detail model.PaymentDetail) {
	r.FromModel(detail.Payment)

	r.Booking = &BookingSummary{
		ID:            detail.BookingID,
		Status:        detail.BookingStatus,
		PropertyID:    detail.PropertyID,
		PropertyTitle: detail.PropertyTitle,
	}
	r.Guest = &userDto.Summary{ID: detail.GuestID, Name: detail.GuestName, Email: detail.GuestEmail}
}

type GetPaymentsResponse struct {
	Pagination gDto.Pagination   `json:"pagination"`
	Payments   []PaymentResponse `json:"payments"`
}

func (r *GetPaymentsResponse) FromDetails(details []model.PaymentDetail, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params.Page, params.Limit, total)

	r.Payments = make([]PaymentResponse, len(details))
	for i, detail := range details {
		r.Payments[i].FromDetail(detail)
	}
}

type PaymentFilter struct {
	BookingID string
	GuestID   string
	Status    string
}

func (f *PaymentFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.BookingID = query.Get(constant.RequestParamBookingID)
	f.GuestID = query.Get(constant.RequestParamGuestID)
	f.Status = query.Get(constant.RequestParamStatus)

	if f.Status != "" && !slices.Contains(statuses, f.Status) {
		return failure.Validation("invalid status filter", map[string]any{ //nolint:wrapcheck
			"status":  f.Status,
			"allowed": statuses,
		})
	}

	return nil
}

func (f *PaymentFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.BookingID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldBookingID, Value: f.BookingID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.GuestID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldGuestID, Value: f.GuestID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
