package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentfy/config"
	"rentfy/infras/otel/mocks"
	s3Mocks "rentfy/infras/s3/mocks"
	bookingMocks "rentfy/internal/domains/booking/mocks"
	bookingModel "rentfy/internal/domains/booking/model"
	paymentMocks "rentfy/internal/domains/payment/mocks"
	"rentfy/internal/domains/payment/model"
	"rentfy/internal/domains/payment/model/dto"
	"rentfy/internal/domains/payment/repository"
	"rentfy/internal/domains/payment/service"
	userMocks "rentfy/internal/domains/user/mocks"
	"rentfy/internal/events"
	eventMocks "rentfy/internal/events/mocks"
	cacheMocks "rentfy/shared/cache/mocks"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
)

type fixture struct {
	repo      *paymentMocks.MockPayment
	booking   *bookingMocks.MockBooking
	user      *userMocks.MockUser
	storage   *s3Mocks.MockS3
	cache     *cacheMocks.MockRedisCache
	publisher *eventMocks.MockPublisher
	svc       service.Payment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      paymentMocks.NewMockPayment(ctrl),
		booking:   bookingMocks.NewMockBooking(ctrl),
		user:      userMocks.NewMockUser(ctrl),
		storage:   s3Mocks.NewMockS3(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Booking.ReceiptsDirectory = "receipts-test"

	f.svc = service.New(f.repo, f.booking, f.user, f.storage, cfg, f.cache, mocks.NewOtel(), f.publisher)

	return f
}

func (f *fixture) expectBookingPaid(t *testing.T) {
	t.Helper()

	f.booking.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "PAID", fields[bookingModel.FieldPaymentStatus])

			return nil
		})
	f.cache.EXPECT().Delete(gomock.Any(), "booking:get:booking-1").Return(nil)
	f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
		ID:            "booking-1",
		Status:        bookingModel.StatusConfirmed,
		PaymentStatus: bookingModel.PaymentPaid,
	}, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event events.BookingEvent) {
			assert.Equal(t, events.PaymentCompleted, event.Type)
			assert.Equal(t, "PAID", event.PaymentStatus)
		})
}

func TestPaymentService_Create(t *testing.T) {
	req := dto.CreatePaymentRequest{BookingID: "booking-1", GuestID: "guest-1", Amount: 400}
	booking := bookingModel.Booking{ID: "booking-1", PropertyID: "property-1", Status: bookingModel.StatusPending}

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "creates a pending payment",
			setupMock: func(f *fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.user.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, payment model.Payment) error {
						assert.Equal(t, model.StatusPending, payment.Status)
						assert.Equal(t, "USD", payment.Currency)

						return nil
					})
			},
		},
		{
			name: "booking missing",
			setupMock: func(f *fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "guest missing",
			setupMock: func(f *fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.user.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "booking already has a payment",
			setupMock: func(f *fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.user.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unique constraint wins the race",
			setupMock: func(f *fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.user.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicate)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "booking-1", res.BookingID)
			assert.Equal(t, "PENDING", res.Status)
			require.NotNil(t, res.Booking)
			assert.Equal(t, "property-1", res.Booking.PropertyID)
		})
	}
}

func TestPaymentService_Update(t *testing.T) {
	completed := "COMPLETED"
	oldReceipt := "https://cdn.example.com/receipts-test/old.png"
	receipt := "data:image/png;base64,iVBORw0KGgo="

	pending := model.Payment{ID: "payment-1", BookingID: "booking-1", Status: model.StatusPending}

	t.Run("empty body", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{}, "payment-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("payment missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{Status: &completed}, "payment-1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("completing marks the booking paid", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "COMPLETED", fields[model.FieldStatus])

				return 1, nil
			})
		f.expectBookingPaid(t)
		f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.PaymentDetail{
			Payment: model.Payment{ID: "payment-1", BookingID: "booking-1", Status: model.StatusCompleted},
		}, nil)

		res, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{Status: &completed}, "payment-1")

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", res.Status)
	})

	t.Run("receipt is archived and the old one removed", func(t *testing.T) {
		f := newFixture(t)

		withReceipt := pending
		withReceipt.ReceiptURL = &oldReceipt

		done := make(chan struct{})

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(withReceipt, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), "", "receipts-test", gomock.Any(), "image/png", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, fileName, _ string, _ []byte) (string, error) {
				assert.True(t, strings.HasPrefix(fileName, "payment-1-"))
				assert.True(t, strings.HasSuffix(fileName, ".png"))

				return "https://cdn.example.com/receipts-test/" + fileName, nil
			})
		f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				url, ok := fields[model.FieldReceiptURL].(string)
				require.True(t, ok)
				assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/receipts-test/payment-1-"))

				return 1, nil
			})
		f.storage.EXPECT().GetObjectNameFromURL("", oldReceipt).Return("receipts-test/old.png")
		f.storage.EXPECT().DeleteFile(gomock.Any(), "", "", "receipts-test/old.png").
			DoAndReturn(func(context.Context, string, string, string) error {
				close(done)

				return nil
			})
		f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.PaymentDetail{Payment: withReceipt}, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{Receipt: &receipt}, "payment-1")

		require.NoError(t, err)
		<-done
	})

	t.Run("malformed receipt", func(t *testing.T) {
		f := newFixture(t)
		bad := "data:image/png;base64,%%%"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{Receipt: &bad}, "payment-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket unavailable"))

		_, err := f.svc.Update(context.Background(), dto.UpdatePaymentRequest{Receipt: &receipt}, "payment-1")

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.WebhookRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
	}{
		{
			name: "intent succeeded completes the payment and the booking",
			req: dto.WebhookRequest{
				Type: service.WebhookIntentSucceeded,
				Data: dto.WebhookData{Object: &dto.WebhookObject{ID: "pi_1", ReceiptURL: "https://pay.example.com/r/1"}},
			},
			setupMock: func(t *testing.T, f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
						assert.Equal(t, "COMPLETED", fields[model.FieldStatus])
						assert.Equal(t, "https://pay.example.com/r/1", fields[model.FieldReceiptURL])

						_, args := filter.GetWhereClause()
						assert.Equal(t, "pi_1", args[model.FieldPaymentIntentID])

						return 1, nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldBookingID).Return(model.Payment{BookingID: "booking-1"}, nil)
				f.expectBookingPaid(t)
			},
		},
		{
			name: "intent failed",
			req:  dto.WebhookRequest{Type: service.WebhookIntentFailed, Data: dto.WebhookData{Object: &dto.WebhookObject{ID: "pi_2"}}},
			setupMock: func(t *testing.T, f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, "FAILED", fields[model.FieldStatus])
						assert.NotContains(t, fields, model.FieldReceiptURL)

						return 1, nil
					})
			},
		},
		{
			name: "generic completion reads the id from data",
			req:  dto.WebhookRequest{Type: service.WebhookCompleted, Data: dto.WebhookData{ID: "pi_3"}},
			setupMock: func(t *testing.T, f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ map[string]any, filter gDto.FilterGroup) (int64, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, "pi_3", args[model.FieldPaymentIntentID])

						return 1, nil
					})
			},
		},
		{
			name:      "unknown event is acknowledged",
			req:       dto.WebhookRequest{Type: "charge.refunded"},
			setupMock: func(*testing.T, *fixture) {},
		},
		{
			name: "unmatched intent is acknowledged",
			req:  dto.WebhookRequest{Type: service.WebhookIntentSucceeded, Data: dto.WebhookData{Object: &dto.WebhookObject{ID: "pi_404"}}},
			setupMock: func(_ *testing.T, f *fixture) {
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
		},
		{
			name:      "missing intent id",
			req:       dto.WebhookRequest{Type: service.WebhookIntentFailed},
			setupMock: func(*testing.T, *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			err := f.svc.HandleWebhook(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
