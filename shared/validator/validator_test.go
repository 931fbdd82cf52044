package validator_test

import (
	"net/http"
	"rentfy/shared/failure"
	"rentfy/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	GuestID    string  `json:"guestId"    validate:"required"`
	CheckIn    string  `json:"checkIn"    validate:"required,datetime=2006-01-02"`
	TotalPrice float64 `json:"totalPrice" validate:"gte=0"`
	Status     string  `json:"status"     validate:"omitempty,oneof=PENDING CONFIRMED"`
}

type receiptRequest struct {
	Receipt string `json:"receipt" validate:"omitempty,mimetypes=image/png application/pdf,maxfilesize=0.001"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        bookingRequest
		expectedErr string
	}{
		{
			name: "valid struct",
			data: bookingRequest{PropertyID: "p-1", GuestID: "g-1", CheckIn: "2024-06-01", TotalPrice: 10},
		},
		{
			name:        "bad date",
			data:        bookingRequest{PropertyID: "p-1", GuestID: "g-1", CheckIn: "06/01/2024"},
			expectedErr: "checkIn must be a date in 2006-01-02 format",
		},
		{
			name:        "negative price",
			data:        bookingRequest{PropertyID: "p-1", GuestID: "g-1", CheckIn: "2024-06-01", TotalPrice: -1},
			expectedErr: "totalPrice must be greater than or equal to 0",
		},
		{
			name:        "unknown status",
			data:        bookingRequest{PropertyID: "p-1", GuestID: "g-1", CheckIn: "2024-06-01", Status: "LOST"},
			expectedErr: "status must be one of PENDING CONFIRMED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectedErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.expectedErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateStruct_MissingFields(t *testing.T) {
	err := validator.ValidateStruct(&bookingRequest{GuestID: "g-1"})

	require.Error(t, err)
	assert.Equal(t, "missing required fields", err.Error())
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, map[string]any{"missingFields": []string{"propertyId", "checkIn"}}, failure.GetDetails(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedErr   bool
		expectMissing []string
	}{
		{
			name: "valid body",
			body: `{"propertyId":"p-1","guestId":"g-1","checkIn":"2024-06-01"}`,
		},
		{
			name:        "malformed body",
			body:        `{"propertyId":}`,
			expectedErr: true,
		},
		{
			name:          "empty object",
			body:          `{}`,
			expectedErr:   true,
			expectMissing: []string{"propertyId", "guestId", "checkIn"},
		},
		{
			name:          "empty body",
			body:          ``,
			expectedErr:   true,
			expectMissing: []string{"propertyId", "guestId", "checkIn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingRequest
			err := validator.Validate(strings.NewReader(tt.body), &data)

			if !tt.expectedErr {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

			if tt.expectMissing != nil {
				assert.Equal(t, tt.expectMissing, failure.GetDetails(err)["missingFields"])
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("guest@example.com", "email"))
	assert.Error(t, validator.ValidateVar("guest", "email"))
	assert.NoError(t, validator.ValidateVar("HOST", "oneof=GUEST HOST ADMIN"))
	assert.Error(t, validator.ValidateVar(150, "gte=0,lte=100"))
}

func TestReceiptValidation(t *testing.T) {
	tests := []struct {
		name        string
		receipt     string
		expectedErr bool
	}{
		{name: "empty receipt", receipt: ""},
		{name: "pdf receipt", receipt: "data:application/pdf;base64,JVBERi0xLjQK"},
		{name: "unsupported type", receipt: "data:text/plain;base64,SGVsbG8=", expectedErr: true},
		{name: "not a data url", receipt: "JVBERi0xLjQK", expectedErr: true},
		{name: "too large", receipt: "data:application/pdf;base64," + strings.Repeat("A", 2048), expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&receiptRequest{Receipt: tt.receipt})

			if tt.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
