package dto

import (
	"rentfy/infras/jwt"
	userModel "rentfy/internal/domains/user/model"
	userDto "rentfy/internal/domains/user/model/dto"
	"rentfy/shared/constant"
	gModel "rentfy/shared/model"
	"rentfy/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone"    validate:"omitempty,e164"`
	Role     string  `json:"role"     validate:"omitempty,oneof=GUEST HOST"`
}

// NormalizedEmail is the form emails are stored and looked up in.
func NormalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) userModel.User {
	role := r.Role
	if role == "" {
		role = constant.RoleGuest
	}

	return userModel.User{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(r.Name),
		Email:      NormalizedEmail(r.Email),
		Password:   hashedPassword,
		Phone:      r.Phone,
		Role:       role,
		IsVerified: false,
		Active:     true,
		Metadata:   gModel.NewMetadata(timezone.Now(), username),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"lastLogin" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User userDto.UserResponse `json:"user"`
	TokenResponse
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
