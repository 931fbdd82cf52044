package media

import (
	"net/http"
	"rentfy/infras/otel"
	"rentfy/internal/domains/media/model/dto"
	"rentfy/internal/domains/media/service"
	"rentfy/shared/constant"
	"rentfy/shared/failure"
	"rentfy/shared/validator"
	"rentfy/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Media
	otel    otel.Otel
}

func New(service service.Media, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/media", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadMedia)
		routerGroup.Get("/", handler.GetMedia)
		routerGroup.Patch("/{id}", handler.UpdateMedia)
		routerGroup.Delete("/{id}", handler.DeleteMedia)
	})
}

// UploadMedia attaches a photo or video to a property.
// @Summary Upload property media
// @Description Stores the file in object storage. Only the property's host or an admin may upload.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image (png, jpeg, webp) or mp4 video, up to 20 MB"
// @Param propertyId formData string true "Property ID"
// @Param isFeatured formData bool false "Show first in listings"
// @Param order formData int false "Display order"
// @Success 201 {object} response.Data[dto.MediaResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/media [post]
// @Security BearerAuth
func (handler *Handler) UploadMedia(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadMedia")
	defer scope.End()

	req := dto.UploadMediaRequest{}

	if err := req.FromRequest(request); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, err)

		return
	}
	defer req.Content.Close()

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	media, err := handler.service.Upload(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload media")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, media, "Media uploaded successfully")
}

// GetMedia lists a property's media in display order.
// @Summary Get property media
// @Tags Media
// @Produce json
// @Param propertyId query string true "Property ID"
// @Success 200 {object} response.Data[dto.GetMediaResponse]
// @Failure 400 {object} response.Error
// @Router /v1/media [get]
func (handler *Handler) GetMedia(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMedia")
	defer scope.End()

	propertyID := request.URL.Query().Get(constant.RequestParamPropertyID)
	if propertyID == constant.Empty {
		response.WithError(writer, failure.Validation("propertyId is required", map[string]any{
			"missingFields": []string{constant.RequestParamPropertyID},
		}))

		return
	}

	media, err := handler.service.GetAll(ctx, propertyID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get media")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, media)
}

// UpdateMedia changes the featured flag or display order.
// @Summary Update property media
// @Tags Media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Param request body dto.UpdateMediaRequest true "Update Media Request"
// @Success 200 {object} response.Data[dto.MediaResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/media/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMedia(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMedia")
	defer scope.End()

	req := dto.UpdateMediaRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	media, err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update media")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, media, "Media updated successfully")
}

// DeleteMedia detaches media from its property.
// @Summary Delete property media
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/media/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMedia(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMedia")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete media")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Media deleted successfully")
}
