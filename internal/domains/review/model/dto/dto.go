package dto

import (
	"net/http"
	"rentfy/internal/domains/review/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID         string  `json:"bookingId"         validate:"required"`
	GuestID           string  `json:"guestId"           validate:"required"`
	RatingCleanliness int     `json:"ratingCleanliness" validate:"required,min=1,max=5"`
	RatingComfort     int     `json:"ratingComfort"     validate:"required,min=1,max=5"`
	RatingLocation    int     `json:"ratingLocation"    validate:"required,min=1,max=5"`
	RatingValue       int     `json:"ratingValue"       validate:"required,min=1,max=5"`
	Comment           *string `json:"comment"           validate:"omitempty,min=10,max=1000"`
}

// ToModel builds the review for the property the booking belongs to.
func (c *CreateReviewRequest) ToModel(user, propertyID string) model.Review {
	return model.Review{
		ID:                uuid.NewString(),
		BookingID:         c.BookingID,
		PropertyID:        propertyID,
		GuestID:           c.GuestID,
		RatingCleanliness: c.RatingCleanliness,
		RatingComfort:     c.RatingComfort,
		RatingLocation:    c.RatingLocation,
		RatingValue:       c.RatingValue,
		Comment:           c.Comment,
		Metadata:          gModel.NewMetadata(timezone.Now(), user),
	}
}

type ReviewResponse struct {
	ID                string  `json:"id"`
	BookingID         string  `json:"bookingId"`
	PropertyID        string  `json:"propertyId"`
	GuestID           string  `json:"guestId"`
	GuestName         string  `json:"guestName,omitempty"`
	RatingCleanliness int     `json:"ratingCleanliness"`
	RatingComfort     int     `json:"ratingComfort"`
	RatingLocation    int     `json:"ratingLocation"`
	RatingValue       int     `json:"ratingValue"`
	OverallRating     float64 `json:"overallRating"`
	Comment           *string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(review model.Review) {
	r.ID = review.ID
	r.BookingID = review.BookingID
	r.PropertyID = review.PropertyID
	r.GuestID = review.GuestID
	r.RatingCleanliness = review.RatingCleanliness
	r.RatingComfort = review.RatingComfort
	r.RatingLocation = review.RatingLocation
	r.RatingValue = review.RatingValue
	r.OverallRating = review.Overall()
	r.Comment = review.Comment
	r.Metadata.FromModel(review.Metadata)
}

type GetReviewsResponse struct {
	Pagination gDto.Pagination  `json:"pagination"`
	Reviews    []ReviewResponse `json:"reviews"`
}

func (r *GetReviewsResponse) FromDetails(details []model.ReviewDetail, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params.Page, params.Limit, total)

	r.Reviews = make([]ReviewResponse, len(details))
	for i, detail := range details {
		r.Reviews[i].FromModel(detail.Review)
		r.Reviews[i].GuestName = detail.GuestName
	}
}

type ReviewFilter struct {
	PropertyID string
	GuestID    string
}

func (f *ReviewFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.PropertyID = query.Get(constant.RequestParamPropertyID)
	f.GuestID = query.Get(constant.RequestParamGuestID)
}

func (f *ReviewFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.PropertyID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldPropertyID, Value: f.PropertyID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.GuestID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldGuestID, Value: f.GuestID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
