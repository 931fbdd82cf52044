package model

import (
	"rentfy/shared/dto"
	"rentfy/shared/model"
	"strings"
)

const (
	TableName  = "property_media"
	EntityName = "media"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldURL        = "url"
	FieldType       = "type"
	FieldIsFeatured = "is_featured"
	FieldSortOrder  = "sort_order"
)

const (
	TypeImage = "IMAGE"
	TypeVideo = "VIDEO"
)

type Media struct {
	ID         string `db:"id"`
	PropertyID string `db:"property_id"`
	URL        string `db:"url"`
	Type       string `db:"type"`
	IsFeatured bool   `db:"is_featured"`
	SortOrder  int    `db:"sort_order"`
	model.Metadata
}

// TypeOf classifies an uploaded content type.
func TypeOf(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return TypeVideo
	}

	return TypeImage
}

func ByProperty(propertyID string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: FieldPropertyID, Value: propertyID, Operator: dto.FilterOperatorEq, Table: TableName},
		},
	}
}

// OtherFeatured matches the featured media of a property except keepID.
func OtherFeatured(propertyID, keepID string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: FieldPropertyID, Value: propertyID, Operator: dto.FilterOperatorEq, Table: TableName},
			dto.Filter{Field: FieldIsFeatured, ArgName: "featured", Value: true, Operator: dto.FilterOperatorEq, Table: TableName},
			dto.Filter{Field: FieldID, Value: keepID, Operator: dto.FilterOperatorNotEq, Table: TableName},
		},
	}
}
