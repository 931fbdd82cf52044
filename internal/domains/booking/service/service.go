package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"rentfy/config"
	"rentfy/infras/metrics"
	"rentfy/infras/otel"
	"rentfy/internal/domains/booking/model"
	"rentfy/internal/domains/booking/model/dto"
	"rentfy/internal/domains/booking/repository"
	propertyModel "rentfy/internal/domains/property/model"
	propertyRepo "rentfy/internal/domains/property/repository"
	userModel "rentfy/internal/domains/user/model"
	userRepo "rentfy/internal/domains/user/repository"
	"rentfy/internal/events"
	"rentfy/shared"
	"rentfy/shared/cache"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	"rentfy/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	msgPropertyUnavailable = "property not found or not available"
	msgBookingNotFound     = "booking not found"
	msgConcurrentUpdate    = "booking was modified concurrently, please retry"
	msgPriceLocked         = "total price cannot change once the booking is paid"
	msgHasReview           = "cannot delete booking with existing review"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	propertyRepo propertyRepo.Property
	userRepo     userRepo.User
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	events       events.Publisher
}

func New(
	repo repository.Booking,
	propertyRepo propertyRepo.Property,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Booking {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		events:       publisher,
	}
}

// Create validates the request against the property and both parties, then reserves the dates.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	if !shared.IsUUID(booking.PropertyID) {
		return res, failure.NotFound(msgPropertyUnavailable) // nolint:wrapcheck
	}

	property, err := s.propertyRepo.Get(ctx, propertyModel.NotDeleted(shared.FilterByID(booking.PropertyID, propertyModel.FieldID, propertyModel.TableName)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if !property.IsBookable() {
		return res, failure.NotFound(msgPropertyUnavailable) // nolint:wrapcheck
	}

	guest, err := s.getUser(ctx, booking.GuestID, "guest")
	if err != nil {
		return res, err
	}

	host, err := s.getUser(ctx, booking.HostID, "host")
	if err != nil {
		return res, err
	}

	scope.SetAttribute("property_id", booking.PropertyID)

	if err = s.repo.Reserve(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDatesUnavailable) {
			metrics.BookingConflicts.Inc()

			return res, failure.Conflict(repository.ErrDatesUnavailable.Error()) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	s.publish(ctx, events.BookingCreated, booking)

	res.FromModel(booking)
	res.WithParties(property, guest, host)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, bookingFilter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, err //nolint:wrapcheck
	}

	req.Newest(model.TableName + "." + model.FieldCreatedAt)
	filter := bookingFilter.ToFilterGroup()

	var (
		total   int
		details []model.BookingDetail
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		total, err = s.repo.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		var err error

		details, err = s.repo.GetAllDetail(gctx, req, filter)
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, err //nolint:wrapcheck
	}

	res.FromDetails(details, req, total)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(id) {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	res.FromDetail(detail)

	go s.cacheIfCurrent(context.WithoutCancel(ctx), cacheKey, detail.Booking, res)

	return res, nil
}

// Update applies a status transition and/or a price change in one conditional statement.
// The statement only matches while the booking still has the status it was read with,
// and for price changes only while it is still unpaid.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.Validation("update request cannot be empty", map[string]any{ // nolint:wrapcheck
			"allowedFields": []string{"status", "totalPrice"},
		})
	}

	if !shared.IsUUID(id) {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	var next model.Status

	guard := model.StatusFilter(booking.ID, booking.Status)

	if req.Status != nil {
		next, _ = model.ParseStatus(*req.Status)

		if !booking.Status.CanTransitionTo(next) {
			return res, failure.InvalidTransition(booking.Status.String(), *req.Status, booking.Status.AllowedTransitions()) // nolint:wrapcheck
		}

		fields[model.FieldStatus] = string(next)

		if next == model.StatusConfirmed {
			fields[model.FieldPaymentStatus] = string(model.PaymentPaid)
		}
	}

	if req.TotalPrice != nil {
		if booking.PaymentStatus == model.PaymentPaid {
			return res, failure.Conflict(msgPriceLocked) // nolint:wrapcheck
		}

		fields[model.FieldTotalPrice] = *req.TotalPrice
		guard = model.UnpaidStatusFilter(booking.ID, booking.Status)
	}

	affected, err := s.repo.UpdateCount(ctx, fields, guard)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict(msgConcurrentUpdate) // nolint:wrapcheck
	}

	s.evict(ctx, booking.ID)

	detail, err := s.repo.GetDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload booking")

		return res, fmt.Errorf("failed to reload booking: %w", err)
	}

	if req.Status != nil {
		metrics.BookingTransitions.WithLabelValues(booking.Status.String(), next.String()).Inc()
		s.publish(ctx, events.BookingStatusChanged, detail.Booking)
	}

	res.FromDetail(detail)

	return res, nil
}

// Delete removes a booking permanently unless a review is attached to it.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsUUID(id) {
		return failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	detail, err := s.repo.GetDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	if detail.ReviewID != nil {
		return failure.Conflict(msgHasReview) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return failure.Conflict(msgHasReview) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.evict(ctx, detail.ID)
	s.publish(ctx, events.BookingDeleted, detail.Booking)

	return nil
}

func (s *serviceImpl) getUser(ctx context.Context, id, role string) (userModel.User, error) {
	if !shared.IsUUID(id) {
		return userModel.User{}, failure.NotFound(role + " not found") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("role", role).Msg("failed to get user")

		return user, fmt.Errorf("failed to get %s: %w", role, err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound(role + " not found") // nolint:wrapcheck
	}

	return user, nil
}

// cacheIfCurrent stores res only while the booking still carries the modification time it was
// read with. An Update or Delete that evicted in the meantime is not undone by a stale copy.
func (s *serviceImpl) cacheIfCurrent(ctx context.Context, key string, read model.Booking, res dto.BookingResponse) {
	current, err := s.repo.Get(ctx, shared.FilterByID(read.ID, model.FieldID, model.TableName), model.FieldID, constant.FieldModifiedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking version")

		return
	}

	if current.ID == constant.Empty || !current.ModifiedAt.Equal(read.ModifiedAt) {
		log.Debug().Str("cacheKey", key).Msg("booking changed after read, skipping cache")

		return
	}

	if err := s.cache.Save(ctx, key, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save booking to cache")
	}
}

func (s *serviceImpl) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}
}

func (s *serviceImpl) publish(ctx context.Context, eventType events.Type, booking model.Booking) {
	s.events.Publish(ctx, events.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		PropertyID:    booking.PropertyID,
		Status:        booking.Status.String(),
		PaymentStatus: string(booking.PaymentStatus),
		OccurredAt:    timezone.Now(),
	})
}
