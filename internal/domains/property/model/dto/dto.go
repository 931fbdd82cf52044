package dto

import (
	"net/http"
	"rentfy/internal/domains/property/model"
	"rentfy/shared"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
	"strconv"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	HostID        string  `json:"hostId"        validate:"omitempty,uuid"`
	Title         string  `json:"title"         validate:"required,max=200"`
	Description   string  `json:"description"   validate:"omitempty,max=5000"`
	Type          string  `json:"type"          validate:"required,oneof=APARTMENT VILLA ROOM HOUSE HOTEL"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
	MaxGuests     int     `json:"maxGuests"     validate:"required,min=1"`
	Bedrooms      int     `json:"bedrooms"      validate:"min=0"`
	Bathrooms     int     `json:"bathrooms"     validate:"min=0"`
	Address       string  `json:"address"       validate:"required,max=255"`
	City          string  `json:"city"          validate:"required,max=100"`
	Country       string  `json:"country"       validate:"required,max=100"`
	Status        string  `json:"status"        validate:"omitempty,oneof=ACTIVE PENDING DRAFT SUSPENDED"`
}

// ToModel builds a property owned by hostID. New listings are bookable unless a status is given.
func (c *CreatePropertyRequest) ToModel(user, hostID string) model.Property {
	status := model.StatusActive
	if c.Status != "" {
		status = c.Status
	}

	return model.Property{
		ID:            uuid.NewString(),
		HostID:        hostID,
		Title:         c.Title,
		Description:   c.Description,
		Type:          c.Type,
		PricePerNight: c.PricePerNight,
		MaxGuests:     c.MaxGuests,
		Bedrooms:      c.Bedrooms,
		Bathrooms:     c.Bathrooms,
		Address:       c.Address,
		City:          c.City,
		Country:       c.Country,
		Status:        status,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdatePropertyRequest struct {
	Title         *string  `db:"title"           json:"title"         validate:"omitempty,max=200"`
	Description   *string  `db:"description"     json:"description"   validate:"omitempty,max=5000"`
	Type          *string  `db:"type"            json:"type"          validate:"omitempty,oneof=APARTMENT VILLA ROOM HOUSE HOTEL"`
	PricePerNight *float64 `db:"price_per_night" json:"pricePerNight" validate:"omitempty,gt=0"`
	MaxGuests     *int     `db:"max_guests"      json:"maxGuests"     validate:"omitempty,min=1"`
	Bedrooms      *int     `db:"bedrooms"        json:"bedrooms"      validate:"omitempty,min=0"`
	Bathrooms     *int     `db:"bathrooms"       json:"bathrooms"     validate:"omitempty,min=0"`
	Address       *string  `db:"address"         json:"address"       validate:"omitempty,max=255"`
	City          *string  `db:"city"            json:"city"          validate:"omitempty,max=100"`
	Country       *string  `db:"country"         json:"country"       validate:"omitempty,max=100"`
	Status        *string  `db:"status"          json:"status"        validate:"omitempty,oneof=ACTIVE PENDING DRAFT SUSPENDED"`
}

func (u UpdatePropertyRequest) IsEmpty() bool {
	return u == UpdatePropertyRequest{}
}

type PropertyResponse struct {
	ID            string  `json:"id"`
	HostID        string  `json:"hostId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	MaxGuests     int     `json:"maxGuests"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	Status        string  `json:"status"`
	IsDeleted     bool    `json:"isDeleted"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(model model.Property) {
	r.ID = model.ID
	r.HostID = model.HostID
	r.Title = model.Title
	r.Description = model.Description
	r.Type = model.Type
	r.PricePerNight = model.PricePerNight
	r.MaxGuests = model.MaxGuests
	r.Bedrooms = model.Bedrooms
	r.Bathrooms = model.Bathrooms
	r.Address = model.Address
	r.City = model.City
	r.Country = model.Country
	r.Status = model.Status
	r.IsDeleted = model.IsDeleted
	r.Metadata.FromModel(model.Metadata)
}

type GetPropertiesResponse struct {
	Pagination gDto.Pagination    `json:"pagination"`
	Properties []PropertyResponse `json:"properties"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params.Page, params.Limit, total)

	r.Properties = make([]PropertyResponse, len(models))
	for i, mod := range models {
		r.Properties[i].FromModel(mod)
	}
}

// PropertyFilter holds the optional listing filters.
type PropertyFilter struct {
	HostID         string
	City           string
	Type           string
	Status         string
	MaxPrice       *float64
	MinBedrooms    *int
	IncludeDeleted bool
}

func (f *PropertyFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.HostID = query.Get(constant.RequestParamHostID)
	f.City = query.Get(constant.RequestParamCity)
	f.Type = query.Get(constant.RequestParamType)
	f.Status = query.Get(constant.RequestParamStatus)

	if includeDeleted := shared.ConvertStringToBool(query.Get(constant.RequestParamIncludeDeleted)); includeDeleted != nil {
		f.IncludeDeleted = *includeDeleted
	}

	if value := query.Get(constant.RequestParamMaxPrice); value != "" {
		maxPrice, err := strconv.ParseFloat(value, 64)
		if err != nil || maxPrice < 0 {
			return failure.BadRequestFromString("maxPrice must be a non-negative number") //nolint:wrapcheck
		}

		f.MaxPrice = &maxPrice
	}

	if value := query.Get(constant.RequestParamBedrooms); value != "" {
		bedrooms, err := strconv.Atoi(value)
		if err != nil || bedrooms < 0 {
			return failure.BadRequestFromString("minBedrooms must be a non-negative integer") //nolint:wrapcheck
		}

		f.MinBedrooms = &bedrooms
	}

	return nil
}

func (f *PropertyFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.HostID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldHostID, Value: f.HostID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.City != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldCity, Value: f.City, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if f.Type != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldType, Value: f.Type, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.MaxPrice != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldPricePerNight, Value: *f.MaxPrice, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	if f.MinBedrooms != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldBedrooms, Value: *f.MinBedrooms, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if !f.IncludeDeleted {
		filters = append(filters, gDto.Filter{Field: model.FieldIsDeleted, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
