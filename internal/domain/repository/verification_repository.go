// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"coldstore/internal/domain/entity"
	"coldstore/internal/errors"

	"github.com/google/uuid"
)

// ErrVerificationNotFound is returned when a verification record is not found.
var ErrVerificationNotFound = errors.New("verification not found")

// VerificationRepository defines the standard operations for verification persistence.
type VerificationRepository interface {
	// Create persists a new verification record. Invoked only inside the same
	// transaction that creates the paired cold room.
	Create(ctx context.Context, verification *entity.Verification) error

	// FindByID retrieves a single verification record by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error)

	// FindByColdRoomID retrieves the verification record paired with a cold room.
	FindByColdRoomID(ctx context.Context, coldRoomID uuid.UUID) (*entity.Verification, error)

	// List retrieves a page of verification records, newest submissions first.
	List(ctx context.Context, limit, offset int) ([]*entity.Verification, error)

	// Count returns the total number of verification records.
	Count(ctx context.Context) (int64, error)

	// Update persists a status transition and its review metadata.
	Update(ctx context.Context, verification *entity.Verification) error
}
