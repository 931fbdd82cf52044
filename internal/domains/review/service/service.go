package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Review=MockReviewService

import (
	"context"
	"errors"
	"fmt"
	"rentfy/config"
	"rentfy/infras/otel"
	bookingModel "rentfy/internal/domains/booking/model"
	bookingRepo "rentfy/internal/domains/booking/repository"
	"rentfy/internal/domains/review/model"
	"rentfy/internal/domains/review/model/dto"
	"rentfy/internal/domains/review/repository"
	"rentfy/shared"
	"rentfy/shared/cache"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllReview = "review:gets"
	cacheCountReview  = "review:count"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ReviewFilter) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Review, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create records the guest's review of a completed stay. Each booking is reviewed at most once.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
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

	if booking.GuestID != req.GuestID {
		return res, failure.Forbidden("only the guest of a booking can review it") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusCompleted {
		return res, failure.Validation("only completed bookings can be reviewed", map[string]any{ // nolint:wrapcheck
			"currentStatus": booking.Status.String(),
		})
	}

	reviewed, err := s.repo.Exist(ctx, shared.FilterByID(booking.ID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if reviewed {
		return res, failure.Conflict(repository.ErrDuplicate.Error()) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	review := req.ToModel(user, booking.PropertyID)

	if err = s.repo.Insert(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return res, failure.Conflict(repository.ErrDuplicate.Error()) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	// the booking detail carries its review summary
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(bookingModel.CacheGet, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, reviewFilter dto.ReviewFilter) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Newest(model.TableName + "." + model.FieldCreatedAt)
	filter := reviewFilter.ToFilterGroup()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	details, err := s.repo.GetAllDetail(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromDetails(details, req, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReview, req, filter)

	var total int

	if err := s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review count to cache")
		}
	}()

	return total, nil
}
