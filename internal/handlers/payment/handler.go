package payment

import (
	"net/http"
	"rentfy/infras/otel"
	"rentfy/internal/domains/payment/model/dto"
	"rentfy/internal/domains/payment/service"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/validator"
	"rentfy/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePayment)
		routerGroup.Get("/", handler.GetPayments)
		routerGroup.Post("/webhook", handler.Webhook)
		routerGroup.Get("/{id}", handler.GetPaymentByID)
		routerGroup.Patch("/{id}", handler.UpdatePayment)
	})
}

// CreatePayment opens the payment of a booking.
// @Summary Create a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequest true "Create Payment Request"
// @Success 201 {object} response.Data[dto.PaymentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) CreatePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePayment")
	defer scope.End()

	req := dto.CreatePaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, payment, "Payment created successfully")
}

// GetPayments lists payments.
// @Summary Get all payments
// @Tags Payment
// @Produce json
// @Param bookingId query string false "Filter by booking ID"
// @Param guestId query string false "Filter by guest ID"
// @Param status query string false "Filter by status (PENDING, COMPLETED, FAILED, REFUNDED)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	filter := dto.PaymentFilter{}
	if err := filter.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, payments)
}

// GetPaymentByID retrieves a payment.
// @Summary Get payment by ID
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Data[dto.PaymentResponse]
// @Failure 404 {object} response.Error
// @Router /v1/payments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentByID")
	defer scope.End()

	payment, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, payment)
}

// UpdatePayment patches status, intent or receipt of a payment.
// @Summary Update payment
// @Description receipt is a base64 data url (png, jpeg or pdf, at most 2 MB) archived to object storage.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body dto.UpdatePaymentRequest true "Update Payment Request"
// @Success 200 {object} response.Data[dto.PaymentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/payments/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePayment")
	defer scope.End()

	req := dto.UpdatePaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, payment, "Payment updated successfully")
}

// Webhook receives payment provider callbacks.
// @Summary Payment provider webhook
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.WebhookRequest true "Provider event"
// @Success 200 {object} response.Data[dto.WebhookResponse]
// @Failure 400 {object} response.Error
// @Router /v1/payments/webhook [post]
func (handler *Handler) Webhook(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	req := dto.WebhookRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate webhook body")

		response.WithError(writer, err)

		return
	}

	scope.SetAttribute("webhook.type", req.Type)

	if err := handler.service.HandleWebhook(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", req.Type).Msg("failed to handle webhook")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.WebhookResponse{Received: true})
}
