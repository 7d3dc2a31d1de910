package usecase

import (
	"context"

	"coldstore/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput represents the input for account registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
	UserType string `json:"user_type" validate:"required,oneof=farmer cold_room_owner"`
}

// LoginInput represents the input for email/password login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginInput represents the input for Google ID-token social login.
type GoogleLoginInput struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshTokenInput represents the input for refreshing an access token.
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutInput represents the input for revoking a session.
type LogoutInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthOutput carries the authenticated user and a fresh token pair.
type AuthOutput struct {
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// UserUsecase defines the identity operations of the marketplace.
type UserUsecase interface {
	// Register creates a new account with an email/password credential.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login authenticates an email/password credential and opens a session.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GoogleLogin verifies a Google ID token, creating the account on first login.
	GoogleLogin(ctx context.Context, input *GoogleLoginInput) (*AuthOutput, error)

	// RefreshToken rotates the session and returns a fresh token pair.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*AuthOutput, error)

	// Logout revokes the session identified by the refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// GetProfile retrieves the account behind an authenticated request.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
