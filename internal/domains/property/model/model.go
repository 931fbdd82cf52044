package model

import (
	"rentfy/shared/dto"
	"rentfy/shared/model"
)

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID            = "id"
	FieldHostID        = "host_id"
	FieldTitle         = "title"
	FieldType          = "type"
	FieldPricePerNight = "price_per_night"
	FieldBedrooms      = "bedrooms"
	FieldCity          = "city"
	FieldStatus        = "status"
	FieldIsDeleted     = "is_deleted"
	FieldCreatedAt     = "created_at"
)

const (
	StatusActive    = "ACTIVE"
	StatusPending   = "PENDING"
	StatusDraft     = "DRAFT"
	StatusSuspended = "SUSPENDED"
)

const (
	TypeApartment = "APARTMENT"
	TypeVilla     = "VILLA"
	TypeRoom      = "ROOM"
	TypeHouse     = "HOUSE"
	TypeHotel     = "HOTEL"
)

type Property struct {
	ID            string  `db:"id"`
	HostID        string  `db:"host_id"`
	Title         string  `db:"title"`
	Description   string  `db:"description"`
	Type          string  `db:"type"`
	PricePerNight float64 `db:"price_per_night"`
	MaxGuests     int     `db:"max_guests"`
	Bedrooms      int     `db:"bedrooms"`
	Bathrooms     int     `db:"bathrooms"`
	Address       string  `db:"address"`
	City          string  `db:"city"`
	Country       string  `db:"country"`
	Status        string  `db:"status"`
	IsDeleted     bool    `db:"is_deleted"`
	model.Metadata
}

// IsBookable reports whether guests may reserve the property.
func (p Property) IsBookable() bool {
	return p.ID != "" && p.Status == StatusActive && !p.IsDeleted
}

// NotDeleted restricts filter to rows that have not been soft deleted.
func NotDeleted(filter dto.FilterGroup) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			filter,
			dto.Filter{Field: FieldIsDeleted, Value: false, Operator: dto.FilterOperatorEq, Table: TableName},
		},
	}
}
