// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"coldstore/internal/domain/entity"
	"coldstore/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the operations for session persistence.
type RefreshTokenRepository interface {
	// Create persists a new refresh token session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByTokenHash retrieves a session by the hash of its raw token.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteByTokenHash revokes a single session.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// CountByUserID returns the number of active sessions for a user.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteOldestByUserID revokes the user's oldest session, enforcing the
	// configured concurrent-session limit.
	DeleteOldestByUserID(ctx context.Context, userID uuid.UUID) error
}
