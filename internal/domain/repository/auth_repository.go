// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"coldstore/internal/domain/entity"
	"coldstore/internal/errors"
)

// ErrAuthNotFound is returned when no credential matches the lookup.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines the operations for credential persistence.
type AuthRepository interface {
	// FindAuthentication retrieves a credential by provider and provider-side user ID.
	FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error)

	// CreateAuthentication persists a new credential for a user.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error
}
