package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentfy/config"
	"rentfy/infras/jwt"
	jwtMocks "rentfy/infras/jwt/mocks"
	"rentfy/infras/otel/mocks"
	"rentfy/permissions"
	"rentfy/shared/constant"
	"rentfy/transport/http/middleware"
)

const testPermissions = `{
  "endpoints": [
    { "path": "/v1/auth/login", "method": "POST", "skip": true },
    { "path": "/v1/auth/change-password", "method": "POST", "permissions": [] },
    { "path": "/v1/bookings/{id}", "method": "GET", "permissions": ["GUEST", "HOST", "ADMIN"] },
    { "path": "/v1/bookings/{id}", "method": "DELETE", "permissions": ["HOST", "ADMIN"] }
  ]
}`

type seen struct {
	userID string
	role   string
}

func newAuthRouter(t *testing.T, jwtService jwt.JWT, apiKey string, got *seen) *chi.Mux {
	t.Helper()

	data, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), data, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		got.userID, _ = r.Context().Value(constant.ContextKeyUserID).(string)
		got.role, _ = r.Context().Value(constant.ContextKeyUserRole).(string)

		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ok)
			r.Post("/change-password", ok)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/{id}", ok)
			r.Delete("/{id}", ok)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		headers      map[string]string
		setup        func(m *jwtMocks.MockJWT)
		expectedCode int
		expectedSeen seen
	}{
		{
			name:         "public route needs no token",
			method:       http.MethodPost,
			path:         "/v1/auth/login",
			setup:        func(*jwtMocks.MockJWT) {},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing authorization header",
			method:       http.MethodGet,
			path:         "/v1/bookings/b-1",
			setup:        func(*jwtMocks.MockJWT) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "malformed authorization header",
			method:       http.MethodGet,
			path:         "/v1/bookings/b-1",
			headers:      map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setup:        func(*jwtMocks.MockJWT) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "claims without email",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer partial"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "partial", jwt.AccessToken).Return(&jwt.Claims{UserID: "u-1"}, nil)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "guest reads a booking",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer guest"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "guest", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "guest@rentfy.test", Role: constant.RoleGuest}, nil)
			},
			expectedCode: http.StatusOK,
			expectedSeen: seen{userID: "u-1", role: constant.RoleGuest},
		},
		{
			name:    "guest cannot delete a booking",
			method:  http.MethodDelete,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer guest"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "guest", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "guest@rentfy.test", Role: constant.RoleGuest}, nil)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:    "route without roles admits any caller",
			method:  http.MethodPost,
			path:    "/v1/auth/change-password",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer guest"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "guest", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "guest@rentfy.test", Role: constant.RoleGuest}, nil)
			},
			expectedCode: http.StatusOK,
			expectedSeen: seen{userID: "u-1", role: constant.RoleGuest},
		},
		{
			name:         "valid api key acts as system admin",
			method:       http.MethodDelete,
			path:         "/v1/bookings/b-1",
			headers:      map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			setup:        func(*jwtMocks.MockJWT) {},
			expectedCode: http.StatusOK,
			expectedSeen: seen{userID: constant.SystemUser, role: constant.RoleAdmin},
		},
		{
			name:         "wrong api key",
			method:       http.MethodDelete,
			path:         "/v1/bookings/b-1",
			headers:      map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setup:        func(*jwtMocks.MockJWT) {},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)
			tt.setup(jwtService)

			got := seen{}
			router := newAuthRouter(t, jwtService, "internal-key", &got)

			request := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedCode, recorder.Code)
			assert.Equal(t, tt.expectedSeen, got)
		})
	}
}

func TestAPIKeyWithoutConfiguredKey(t *testing.T) {
	ctrl := gomock.NewController(t)

	got := seen{}
	router := newAuthRouter(t, jwtMocks.NewMockJWT(ctrl), "", &got)

	request := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	request.Header.Set(constant.RequestHeaderAPIKey, "anything")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
