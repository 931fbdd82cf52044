package booking_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentfy/infras/otel/mocks"
	"rentfy/internal/domains/booking/model/dto"
	bookingMocks "rentfy/internal/domains/booking/mocks"
	"rentfy/internal/handlers/booking"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details map[string]any  `json:"details"`
}

func newRouter(t *testing.T) (*chi.Mux, *bookingMocks.MockBookingService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := bookingMocks.NewMockBookingService(ctrl)

	handler := booking.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))

	return recorder, env
}

func TestCreateBooking(t *testing.T) {
	validBody := `{"propertyId":"p-1","guestId":"g-1","hostId":"h-1","checkIn":"2025-07-01","checkOut":"2025-07-05","totalPrice":400}`

	tests := []struct {
		name         string
		body         string
		setup        func(svc *bookingMocks.MockBookingService)
		expectedCode int
		assertBody   func(t *testing.T, env envelope)
	}{
		{
			name: "created",
			body: validBody,
			setup: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), dto.CreateBookingRequest{
					PropertyID: "p-1",
					GuestID:    "g-1",
					HostID:     "h-1",
					CheckIn:    "2025-07-01",
					CheckOut:   "2025-07-05",
					TotalPrice: 400,
				}).Return(dto.BookingResponse{ID: "b-1", PropertyID: "p-1", Status: "PENDING"}, nil)
			},
			expectedCode: http.StatusCreated,
			assertBody: func(t *testing.T, env envelope) {
				assert.True(t, env.Success)
				assert.Equal(t, "Booking created successfully", env.Message)

				var res dto.BookingResponse
				require.NoError(t, json.Unmarshal(env.Data, &res))
				assert.Equal(t, "b-1", res.ID)
				assert.Equal(t, "PENDING", res.Status)
			},
		},
		{
			name:         "missing fields are listed",
			body:         `{"propertyId":"p-1","totalPrice":400}`,
			setup:        func(*bookingMocks.MockBookingService) {},
			expectedCode: http.StatusBadRequest,
			assertBody: func(t *testing.T, env envelope) {
				assert.False(t, env.Success)
				assert.ElementsMatch(t, []any{"guestId", "hostId", "checkIn", "checkOut"}, env.Details["missingFields"])
			},
		},
		{
			name:         "malformed json",
			body:         `{"propertyId":`,
			setup:        func(*bookingMocks.MockBookingService) {},
			expectedCode: http.StatusBadRequest,
			assertBody: func(t *testing.T, env envelope) {
				assert.False(t, env.Success)
			},
		},
		{
			name: "overlapping dates",
			body: validBody,
			setup: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.Conflict("property is not available for the selected dates"))
			},
			expectedCode: http.StatusConflict,
			assertBody: func(t *testing.T, env envelope) {
				assert.Equal(t, "property is not available for the selected dates", env.Error)
			},
		},
		{
			name: "unexpected errors are masked",
			body: validBody,
			setup: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, errors.New("pq: connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
			assertBody: func(t *testing.T, env envelope) {
				assert.Equal(t, constant.ResponseErrorInternal, env.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setup(svc)

			recorder, env := serve(t, router, http.MethodPost, "/bookings", tt.body)

			assert.Equal(t, tt.expectedCode, recorder.Code)
			tt.assertBody(t, env)
		})
	}
}

func TestGetBookings(t *testing.T) {
	t.Run("passes filters and paging", func(t *testing.T) {
		router, svc := newRouter(t)

		guestID := "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"

		svc.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{Page: 2, Limit: 5}, dto.BookingFilter{GuestID: guestID, Status: "CONFIRMED"}).
			Return(dto.GetBookingsResponse{
				Pagination: gDto.NewPagination(2, 5, 6),
				Bookings:   []dto.BookingResponse{{ID: "b-6"}},
			}, nil)

		recorder, env := serve(t, router, http.MethodGet, "/bookings?guestId="+guestID+"&status=CONFIRMED&page=2&limit=5", "")

		assert.Equal(t, http.StatusOK, recorder.Code)

		var res dto.GetBookingsResponse
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, 2, res.Pagination.TotalPages)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder, env := serve(t, router, http.MethodGet, "/bookings?status=BOOKED", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "BOOKED", env.Details["status"])
	})

	t.Run("malformed party id", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder, env := serve(t, router, http.MethodGet, "/bookings?hostId=h-1", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "h-1", env.Details["hostId"])
	})

	t.Run("limit out of range", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder, env := serve(t, router, http.MethodGet, "/bookings?limit=500", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, failure.InvalidLimitParam.Message, env.Error)
	})
}

func TestGetBookingByID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.BookingResponse{}, failure.NotFound("booking not found"))

	recorder, env := serve(t, router, http.MethodGet, "/bookings/missing", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "booking not found", env.Error)
}

func TestUpdateBooking(t *testing.T) {
	t.Run("confirms", func(t *testing.T) {
		router, svc := newRouter(t)
		status := "CONFIRMED"

		svc.EXPECT().Update(gomock.Any(), dto.UpdateBookingRequest{Status: &status}, "b-1").
			Return(dto.BookingResponse{ID: "b-1", Status: status, PaymentStatus: "PAID"}, nil)

		recorder, env := serve(t, router, http.MethodPatch, "/bookings/b-1", `{"status":"CONFIRMED"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var res dto.BookingResponse
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, "PAID", res.PaymentStatus)
	})

	t.Run("invalid transition reports allowed ones", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), gomock.Any(), "b-1").
			Return(dto.BookingResponse{}, failure.InvalidTransition("COMPLETED", "PENDING", nil))

		recorder, env := serve(t, router, http.MethodPatch, "/bookings/b-1", `{"status":"PENDING"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "COMPLETED", env.Details["currentStatus"])
		assert.Equal(t, []any{}, env.Details["allowedTransitions"])
	})

	t.Run("unknown status is rejected before the service", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder, _ := serve(t, router, http.MethodPatch, "/bookings/b-1", `{"status":"BOOKED"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDeleteBooking(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Delete(gomock.Any(), "b-1").Return(nil)

		recorder, env := serve(t, router, http.MethodDelete, "/bookings/b-1", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, env.Success)
	})

	t.Run("reviewed booking", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Delete(gomock.Any(), "b-2").Return(failure.Conflict("cannot delete booking with existing review"))

		recorder, env := serve(t, router, http.MethodDelete, "/bookings/b-2", "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.False(t, env.Success)
	})
}
