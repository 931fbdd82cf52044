package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentfy/config"
	"rentfy/infras/otel/mocks"
	bookingMocks "rentfy/internal/domains/booking/mocks"
	bookingModel "rentfy/internal/domains/booking/model"
	reviewMocks "rentfy/internal/domains/review/mocks"
	"rentfy/internal/domains/review/model"
	"rentfy/internal/domains/review/model/dto"
	"rentfy/internal/domains/review/repository"
	"rentfy/internal/domains/review/service"
	cacheMocks "rentfy/shared/cache/mocks"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
)

func TestReviewService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{
		BookingID:         "booking-1",
		GuestID:           "guest-1",
		RatingCleanliness: 5,
		RatingComfort:     4,
		RatingLocation:    5,
		RatingValue:       4,
	}

	completed := bookingModel.Booking{ID: "booking-1", PropertyID: "property-1", GuestID: "guest-1", Status: bookingModel.StatusCompleted}

	tests := []struct {
		name      string
		setupMock func(repo *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "reviews a completed stay",
			setupMock: func(repo *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, cache *cacheMocks.MockRedisCache) {
				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, review model.Review) error {
						assert.Equal(t, "property-1", review.PropertyID)

						return nil
					})
				cache.EXPECT().Delete(gomock.Any(), "booking:get:booking-1").Return(nil)
			},
		},
		{
			name: "booking missing",
			setupMock: func(_ *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, _ *cacheMocks.MockRedisCache) {
				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "someone else's booking",
			setupMock: func(_ *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, _ *cacheMocks.MockRedisCache) {
				other := completed
				other.GuestID = "guest-2"

				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(other, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "stay not completed",
			setupMock: func(_ *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, _ *cacheMocks.MockRedisCache) {
				confirmed := completed
				confirmed.Status = bookingModel.StatusConfirmed

				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "already reviewed",
			setupMock: func(repo *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, _ *cacheMocks.MockRedisCache) {
				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent review",
			setupMock: func(repo *reviewMocks.MockReview, bookings *bookingMocks.MockBooking, _ *cacheMocks.MockRedisCache) {
				bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicate)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := reviewMocks.NewMockReview(ctrl)
			bookings := bookingMocks.NewMockBooking(ctrl)
			cache := cacheMocks.NewMockRedisCache(ctrl)

			cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			tt.setupMock(repo, bookings, cache)

			svc := service.New(repo, bookings, &config.Config{}, cache, mocks.NewOtel())

			res, err := svc.Create(context.Background(), req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "booking-1", res.BookingID)
			assert.InDelta(t, 4.5, res.OverallRating, 0.001)
		})
	}
}

func TestReviewService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := reviewMocks.NewMockReview(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil")).Times(2)
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.ReviewDetail, error) {
			assert.Equal(t, "reviews.created_at", params.SortBy)

			where, _ := filter.GetWhereClause()
			assert.Equal(t, "(reviews.property_id = :property_id)", where)

			return []model.ReviewDetail{{
				Review:    model.Review{ID: "review-1", RatingCleanliness: 5, RatingComfort: 5, RatingLocation: 5, RatingValue: 5},
				GuestName: "Guest",
			}}, nil
		})

	svc := service.New(repo, bookingMocks.NewMockBooking(ctrl), &config.Config{}, cache, mocks.NewOtel())

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ReviewFilter{PropertyID: "property-1"})

	require.NoError(t, err)
	require.Len(t, res.Reviews, 1)
	assert.Equal(t, "Guest", res.Reviews[0].GuestName)
	assert.InDelta(t, 5.0, res.Reviews[0].OverallRating, 0.001)
	assert.Equal(t, 1, res.Pagination.TotalPages)
}
