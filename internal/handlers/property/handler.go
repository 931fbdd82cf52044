package property

import (
	"net/http"
	"rentfy/infras/otel"
	"rentfy/internal/domains/property/model/dto"
	"rentfy/internal/domains/property/service"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/validator"
	"rentfy/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Property
	otel    otel.Otel
}

func New(service service.Property, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateProperty)
		routerGroup.Get("/", handler.GetProperties)
		routerGroup.Get("/{id}", handler.GetPropertyByID)
		routerGroup.Patch("/{id}", handler.UpdateProperty)
		routerGroup.Delete("/{id}", handler.DeleteProperty)
	})
}

// CreateProperty lists a new property for the calling host.
// @Summary Create a new property
// @Description Hosts list their own properties. Admins may pass hostId to list on behalf of a host.
// @Tags Property
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Create Property Request"
// @Success 201 {object} response.Data[dto.PropertyResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [post]
// @Security BearerAuth
func (handler *Handler) CreateProperty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProperty")
	defer scope.End()

	req := dto.CreatePropertyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	property, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create property")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, property, "Property created successfully")
}

// GetProperties retrieves the property directory.
// @Summary Get all properties
// @Tags Property
// @Produce json
// @Param hostId query string false "Filter by host ID"
// @Param city query string false "Filter by city (partial match)"
// @Param type query string false "Filter by type (APARTMENT, VILLA, ROOM, HOUSE, HOTEL)"
// @Param status query string false "Filter by status"
// @Param maxPrice query number false "Maximum price per night"
// @Param minBedrooms query int false "Minimum number of bedrooms"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Data[dto.GetPropertiesResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [get]
func (handler *Handler) GetProperties(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	filter := dto.PropertyFilter{}
	if err := filter.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	properties, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get properties")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, properties)
}

// GetPropertyByID retrieves a live property.
// @Summary Get property by ID
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.PropertyResponse]
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [get]
func (handler *Handler) GetPropertyByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyByID")
	defer scope.End()

	property, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, property)
}

// UpdateProperty edits a property owned by the caller.
// @Summary Update property
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Update Property Request"
// @Success 200 {object} response.Data[dto.PropertyResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProperty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProperty")
	defer scope.End()

	req := dto.UpdatePropertyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	property, err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update property")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, property, "Property updated successfully")
}

// DeleteProperty hides a property from the directory.
// @Summary Delete property
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProperty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProperty")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete property")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Property deleted successfully")
}
