package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentfy/shared/constant"
	"rentfy/shared/failure"
	"rentfy/transport/http/response"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expose       bool
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:         "failure keeps code and details",
			err:          failure.Validation("missing required fields", map[string]any{"missingFields": []string{"checkIn"}}),
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"success": false,
				"error":   "missing required fields",
				"details": map[string]any{"missingFields": []any{"checkIn"}},
			},
		},
		{
			name:         "internal error is masked",
			err:          errors.New("pq: relation \"bookings\" does not exist"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]any{"success": false, "error": constant.ResponseErrorInternal},
		},
		{
			name:         "internal error is exposed in development",
			err:          errors.New("pq: relation \"bookings\" does not exist"),
			expose:       true,
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]any{"success": false, "error": "pq: relation \"bookings\" does not exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response.ExposeInternalErrors(tt.expose)
			t.Cleanup(func() { response.ExposeInternalErrors(false) })

			recorder := httptest.NewRecorder()
			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.expectedCode, recorder.Code)
			assert.Equal(t, constant.ContentTypeJSON, recorder.Header().Get(constant.RequestHeaderContentType))
			assert.Equal(t, tt.expectedBody, decode(t, recorder))
		})
	}
}

func TestWithJSONMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithJSONMessage(recorder, http.StatusCreated, map[string]string{"id": "b-1"}, "Booking created successfully")

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, map[string]any{
		"success": true,
		"message": "Booking created successfully",
		"data":    map[string]any{"id": "b-1"},
	}, decode(t, recorder))
}

func TestWithRequestLimitExceeded(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, map[string]any{"success": false, "message": constant.ResponseErrorRequestLimitExceeded}, decode(t, recorder))
}
