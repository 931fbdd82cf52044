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
	"rentfy/infras/jwt"
	jwtMocks "rentfy/infras/jwt/mocks"
	"rentfy/infras/otel/mocks"
	"rentfy/internal/domains/auth/model/dto"
	"rentfy/internal/domains/auth/service"
	userMocks "rentfy/internal/domains/user/mocks"
	userModel "rentfy/internal/domains/user/model"
	"rentfy/shared/constant"
	"rentfy/shared/failure"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
)

// bcrypt hash of "password"
const hashedPassword = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

var tokenPair = &jwt.TokenPair{
	AccessToken:  "access-token",
	RefreshToken: "refresh-token",
	TokenType:    "Bearer",
	ExpiresIn:    900,
}

func newFixture(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	return service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT), mockUserRepo, mockJWT
}

func validUser() userModel.User {
	return userModel.User{
		ID:         "user-id-123",
		Name:       "Test User",
		Email:      "test@example.com",
		Password:   hashedPassword,
		Role:       constant.RoleGuest,
		IsVerified: true,
		Active:     true,
		Metadata:   gModel.NewMetadata(timezone.Now(), "system"),
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Name:     "Jane Host",
		Email:    "Jane@Example.com",
		Password: "password123",
		Role:     constant.RoleHost,
	}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "registers host",
			setupMock: func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u userModel.User) error {
					assert.Equal(t, "jane@example.com", u.Email)
					assert.Equal(t, constant.RoleHost, u.Role)
					assert.NotEqual(t, req.Password, u.Password)

					return nil
				})
				jwtMock.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), "jane@example.com", constant.RoleHost).Return(tokenPair, nil)
			},
		},
		{
			name: "email taken",
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
			wantErr:  true,
		},
		{
			name: "insert fails",
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, jwtMock := newFixture(t)
			tt.setupMock(repo, jwtMock)

			res, err := svc.Register(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", res.User.Email)
			assert.Equal(t, constant.RoleHost, res.User.Role)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "Bearer", res.TokenType)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				user := validUser()
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				jwtMock.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Role).Return(tokenPair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure is not fatal",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
				jwtMock.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tokenPair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantErr:  true,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
			},
			wantCode: http.StatusUnauthorized,
			wantErr:  true,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				user := validUser()
				user.Active = false
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusForbidden,
			wantErr:  true,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtMock *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
				jwtMock.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("signing failed"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
		{
			name: "repository error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, jwtMock := newFixture(t)
			tt.setupMock(repo, jwtMock)

			res, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-id-123", res.User.ID)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _, jwtMock := newFixture(t)
		jwtMock.EXPECT().RefreshTokens(gomock.Any(), "refresh-token").Return(tokenPair, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _, jwtMock := newFixture(t)
		jwtMock.EXPECT().RefreshTokens(gomock.Any(), "bad").Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bad"})

		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "success",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req map[string]any, _ any) error {
					assert.NotEqual(t, "newpassword123", req[userModel.FieldPassword])
					assert.Equal(t, "user-id-123", req["modified_by"])

					return nil
				})
			},
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantErr:  true,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  true,
		},
		{
			name: "update fails",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newFixture(t)
			tt.setupMock(repo)

			err := svc.ChangePassword(context.Background(), tt.req, "user-id-123")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
