package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Payment=MockPaymentService

import (
	"context"
	"errors"
	"fmt"
	"rentfy/config"
	"rentfy/infras/otel"
	"rentfy/infras/s3"
	bookingModel "rentfy/internal/domains/booking/model"
	bookingRepo "rentfy/internal/domains/booking/repository"
	"rentfy/internal/domains/payment/model"
	"rentfy/internal/domains/payment/model/dto"
	"rentfy/internal/domains/payment/repository"
	userModel "rentfy/internal/domains/user/model"
	userRepo "rentfy/internal/domains/user/repository"
	"rentfy/internal/events"
	"rentfy/shared"
	"rentfy/shared/base64"
	"rentfy/shared/cache"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	"rentfy/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	WebhookIntentSucceeded = "payment_intent.succeeded"
	WebhookIntentFailed    = "payment_intent.payment_failed"
	WebhookCompleted       = "payment.completed"

	defaultReceiptsDirectory = "receipts"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.PaymentFilter) (dto.GetPaymentsResponse, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) (dto.PaymentResponse, error)
	HandleWebhook(ctx context.Context, req dto.WebhookRequest) error
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	userRepo    userRepo.User
	storage     s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	events      events.Publisher
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	userRepo userRepo.User,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		storage:     storage,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		events:      publisher,
	}
}

// Create opens a PENDING payment for a booking. A booking has at most one payment.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	guestExist, err := s.userRepo.Exist(ctx, shared.FilterByID(req.GuestID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check guest")

		return res, fmt.Errorf("failed to check guest: %w", err)
	}

	if !guestExist {
		return res, failure.NotFound("guest not found") // nolint:wrapcheck
	}

	paid, err := s.repo.Exist(ctx, shared.FilterByID(booking.ID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing payment")

		return res, fmt.Errorf("failed to check existing payment: %w", err)
	}

	if paid {
		return res, failure.Conflict(repository.ErrDuplicate.Error()) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	payment := req.ToModel(user)

	if err = s.repo.Insert(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return res, failure.Conflict(repository.ErrDuplicate.Error()) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	res.FromModel(payment)
	res.Booking = &dto.BookingSummary{ID: booking.ID, Status: booking.Status.String(), PropertyID: booking.PropertyID}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, paymentFilter dto.PaymentFilter) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Newest(model.TableName + "." + model.FieldCreatedAt)
	filter := paymentFilter.ToFilterGroup()

	var (
		total   int
		details []model.PaymentDetail
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		total, err = s.repo.Count(gctx, filter)

		return err //nolint:wrapcheck
	})

	group.Go(func() (err error) {
		details, err = s.repo.GetAllDetail(gctx, req, filter)

		return err //nolint:wrapcheck
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to list payments")

		return res, fmt.Errorf("failed to list payments: %w", err)
	}

	res.FromDetails(details, req, total)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	res.FromDetail(detail)

	return res, nil
}

// Update patches status, intent id and receipt. Completing a payment marks its booking PAID.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.Status != nil {
		fields[model.FieldStatus] = *req.Status
	}

	if req.PaymentIntentID != nil {
		fields[model.FieldPaymentIntentID] = *req.PaymentIntentID
	}

	if req.Receipt != nil {
		receiptURL, err := s.uploadReceipt(ctx, payment.ID, *req.Receipt)
		if err != nil {
			return res, err
		}

		fields[model.FieldReceiptURL] = receiptURL
	}

	if _, err = s.repo.UpdateCount(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update payment")

		return res, fmt.Errorf("failed to update payment: %w", err)
	}

	if req.Receipt != nil && payment.ReceiptURL != nil {
		s.removeReceipt(ctx, *payment.ReceiptURL)
	}

	if req.Status != nil && *req.Status == model.StatusCompleted && payment.Status != model.StatusCompleted {
		if err = s.markBookingPaid(ctx, payment.BookingID); err != nil {
			return res, err
		}
	}

	detail, err := s.repo.GetDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload payment")

		return res, fmt.Errorf("failed to reload payment: %w", err)
	}

	res.FromDetail(detail)

	return res, nil
}

// HandleWebhook applies a payment provider event. Unknown event types are acknowledged.
func (s *serviceImpl) HandleWebhook(ctx context.Context, req dto.WebhookRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.HandleWebhook")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("event_type", req.Type)

	var status string

	switch req.Type {
	case WebhookIntentSucceeded, WebhookCompleted:
		status = model.StatusCompleted
	case WebhookIntentFailed:
		status = model.StatusFailed
	default:
		log.Info().Str("type", req.Type).Msg("unhandled payment webhook event")

		return nil
	}

	intentID := req.IntentID()
	if intentID == constant.Empty {
		return failure.Validation("payment intent id is required", map[string]any{ // nolint:wrapcheck
			"missingFields": []string{"data.object.id"},
		})
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldPaymentIntentID, Value: intentID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.SystemUser,
	}

	if receiptURL := req.ReceiptURL(); receiptURL != constant.Empty {
		fields[model.FieldReceiptURL] = receiptURL
	}

	affected, err := s.repo.UpdateCount(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to apply payment webhook")

		return fmt.Errorf("failed to apply payment webhook: %w", err)
	}

	if affected == 0 {
		log.Warn().Str("type", req.Type).Str("payment_intent_id", intentID).Msg("payment webhook matched no payment")

		return nil
	}

	if req.Type != WebhookIntentSucceeded {
		return nil
	}

	payment, err := s.repo.Get(ctx, filter, model.FieldBookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	return s.markBookingPaid(ctx, payment.BookingID)
}

func (s *serviceImpl) markBookingPaid(ctx context.Context, bookingID string) error {
	filter := shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName)
	fields := map[string]any{
		bookingModel.FieldPaymentStatus: string(bookingModel.PaymentPaid),
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        constant.SystemUser,
	}

	if err := s.bookingRepo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark booking paid")

		return fmt.Errorf("failed to mark booking paid: %w", err)
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(bookingModel.CacheGet, bookingID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	booking, err := s.bookingRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload booking")

		return fmt.Errorf("failed to reload booking: %w", err)
	}

	s.events.Publish(ctx, events.BookingEvent{
		Type:          events.PaymentCompleted,
		BookingID:     booking.ID,
		PropertyID:    booking.PropertyID,
		Status:        booking.Status.String(),
		PaymentStatus: string(booking.PaymentStatus),
		OccurredAt:    timezone.Now(),
	})

	return nil
}

func (s *serviceImpl) uploadReceipt(ctx context.Context, paymentID, receipt string) (string, error) {
	content, contentType, err := base64.Decode(receipt)
	if err != nil {
		return constant.Empty, failure.BadRequest(err) // nolint:wrapcheck
	}

	directory := s.cfg.App.Booking.ReceiptsDirectory
	if directory == constant.Empty {
		directory = defaultReceiptsDirectory
	}

	fileName := fmt.Sprintf("%s-%s%s", paymentID, uuid.NewString(), base64.Extension(contentType))

	url, err := s.storage.UploadFileBytes(ctx, constant.Empty, directory, fileName, contentType, content)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload receipt")

		return constant.Empty, fmt.Errorf("failed to upload receipt: %w", err)
	}

	return url, nil
}

// removeReceipt deletes a superseded receipt object in the background.
func (s *serviceImpl) removeReceipt(ctx context.Context, url string) {
	objectName := s.storage.GetObjectNameFromURL(constant.Empty, url)
	if objectName == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.storage.DeleteFile(c, constant.Empty, constant.Empty, objectName); err != nil {
			log.Error().Err(err).Str("object", objectName).Msg("failed to delete old receipt")
		}
	}()
}
