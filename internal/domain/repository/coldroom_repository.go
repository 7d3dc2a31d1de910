// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"coldstore/internal/domain/entity"
	"coldstore/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for cold room persistence.
var (
	// ErrColdRoomNotFound is returned when a cold room is not found.
	ErrColdRoomNotFound = errors.New("cold room not found")
	// ErrColdRoomImageNotFound is returned when a cold room image is not found.
	ErrColdRoomImageNotFound = errors.New("cold room image not found")
)

// BoundingBox is a coarse geographic pre-filter for proximity queries.
// The exact geodesic distance check happens in the search engine; the box
// only limits how many candidate rows leave the database.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// ColdRoomRepository defines the standard operations for cold room persistence.
// All read methods load the paired verification record alongside the room so
// the derived verified flag is always computable.
type ColdRoomRepository interface {
	// Create persists a new cold room listing.
	Create(ctx context.Context, room *entity.ColdRoom) error

	// FindByID retrieves a single cold room by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ColdRoom, error)

	// FindByOwner retrieves all cold rooms belonging to an owner, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.ColdRoom, error)

	// Update modifies an existing cold room listing.
	Update(ctx context.Context, room *entity.ColdRoom) error

	// Delete removes a cold room. The paired verification record and images
	// are removed in the same statement via foreign-key cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindVerified retrieves a page of approved cold rooms, newest first.
	FindVerified(ctx context.Context, limit, offset int) ([]*entity.ColdRoom, error)

	// CountVerified returns the total number of approved cold rooms.
	CountVerified(ctx context.Context) (int64, error)

	// FindVerifiedWithinBounds retrieves all approved cold rooms whose
	// coordinates fall inside the bounding box.
	FindVerifiedWithinBounds(ctx context.Context, bounds BoundingBox) ([]*entity.ColdRoom, error)

	// AddImage persists a gallery image record for a cold room.
	AddImage(ctx context.Context, image *entity.ColdRoomImage) error

	// FindImages retrieves all images for a cold room, primary first.
	FindImages(ctx context.Context, coldRoomID uuid.UUID) ([]*entity.ColdRoomImage, error)
}
