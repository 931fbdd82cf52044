package dto

import (
	"mime/multipart"
	"net/http"
	"rentfy/internal/domains/media/model"
	"rentfy/shared"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
	"strconv"
)

const (
	formPropertyID = "propertyId"
	formIsFeatured = "isFeatured"
	formOrder      = "order"
)

type UploadMediaRequest struct {
	PropertyID string                `json:"propertyId" validate:"required,uuid"`
	IsFeatured bool                  `json:"isFeatured"`
	SortOrder  int                   `json:"order"      validate:"min=0"`
	File       *multipart.FileHeader `json:"file"       swaggerignore:"true" validate:"required,mimetypes=image/png image/jpeg image/webp video/mp4,maxfilesize=20"`
	Content    multipart.File        `json:"-"`
}

// FromRequest reads the multipart form. The caller closes Content.
func (u *UploadMediaRequest) FromRequest(r *http.Request) error {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	file, header, err := r.FormFile(constant.FormFile)
	if err != nil {
		return failure.Validation("file is required", map[string]any{"missingFields": []string{constant.FormFile}}) //nolint:wrapcheck
	}

	u.File = header
	u.Content = file
	u.PropertyID = r.FormValue(formPropertyID)

	if featured := shared.ConvertStringToBool(r.FormValue(formIsFeatured)); featured != nil {
		u.IsFeatured = *featured
	}

	if value := r.FormValue(formOrder); value != "" {
		order, err := strconv.Atoi(value)
		if err != nil {
			return failure.BadRequestFromString("order must be an integer") //nolint:wrapcheck
		}

		u.SortOrder = order
	}

	return nil
}

func (u *UploadMediaRequest) ContentType() string {
	return u.File.Header.Get(constant.RequestHeaderContentType)
}

func (u *UploadMediaRequest) ToModel(id, user, url string) model.Media {
	return model.Media{
		ID:         id,
		PropertyID: u.PropertyID,
		URL:        url,
		Type:       model.TypeOf(u.ContentType()),
		IsFeatured: u.IsFeatured,
		SortOrder:  u.SortOrder,
		Metadata:   gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateMediaRequest struct {
	IsFeatured *bool `db:"is_featured" json:"isFeatured"`
	SortOrder  *int  `db:"sort_order"  json:"order"      validate:"omitempty,min=0"`
}

func (u UpdateMediaRequest) IsEmpty() bool {
	return u == UpdateMediaRequest{}
}

type MediaResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	IsFeatured bool   `json:"isFeatured"`
	Order      int    `json:"order"`
	gDto.Metadata
}

func (r *MediaResponse) FromModel(model model.Media) {
	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.URL = model.URL
	r.Type = model.Type
	r.IsFeatured = model.IsFeatured
	r.Order = model.SortOrder
	r.Metadata.FromModel(model.Metadata)
}

type GetMediaResponse struct {
	Media []MediaResponse `json:"media"`
}

func (r *GetMediaResponse) FromModels(models []model.Media) {
	r.Media = make([]MediaResponse, len(models))
	for i, mod := range models {
		r.Media[i].FromModel(mod)
	}
}
