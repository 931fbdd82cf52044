package review

import (
	"net/http"
	"rentfy/infras/otel"
	"rentfy/internal/domains/review/model/dto"
	"rentfy/internal/domains/review/service"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/validator"
	"rentfy/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Get("/", handler.GetReviews)
	})
}

// CreateReview rates a completed stay.
// @Summary Create a review
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	review, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, review, "Review created successfully")
}

// GetReviews lists reviews, usually of one property.
// @Summary Get reviews
// @Tags Review
// @Produce json
// @Param propertyId query string false "Filter by property ID"
// @Param guestId query string false "Filter by guest ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Data[dto.GetReviewsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/reviews [get]
func (handler *Handler) GetReviews(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	filter := dto.ReviewFilter{}
	filter.FromRequest(request)

	reviews, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reviews)
}
