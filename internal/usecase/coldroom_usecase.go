// Package usecase defines the application's use case interfaces and their
// input/output DTOs. Implementations live in the impl subpackage.
package usecase

import (
	"context"
	"encoding/json"
	"io"

	"coldstore/internal/domain/authz"
	"coldstore/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateColdRoomInput represents the input for creating a cold room listing.
type CreateColdRoomInput struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Address              string          `json:"address"`
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	CapacityKg           int             `json:"capacity_kg"`
	PricePerKgPerMonth   float64         `json:"price_per_kg_per_month"`
	Features             []string        `json:"features"`
	TempMin              float64         `json:"temp_min"`
	TempMax              float64         `json:"temp_max"`
	TempUnit             string          `json:"temp_unit"`
	AvailabilitySchedule json.RawMessage `json:"availability_schedule"`
}

// UpdateColdRoomInput represents a partial update to a cold room listing.
// Nil fields are left untouched. Ownership and the verification flag can
// never be changed through this input.
type UpdateColdRoomInput struct {
	Name                 *string         `json:"name,omitempty"`
	Description          *string         `json:"description,omitempty"`
	Address              *string         `json:"address,omitempty"`
	Latitude             *float64        `json:"latitude,omitempty"`
	Longitude            *float64        `json:"longitude,omitempty"`
	CapacityKg           *int            `json:"capacity_kg,omitempty"`
	PricePerKgPerMonth   *float64        `json:"price_per_kg_per_month,omitempty"`
	Features             *[]string       `json:"features,omitempty"`
	TempMin              *float64        `json:"temp_min,omitempty"`
	TempMax              *float64        `json:"temp_max,omitempty"`
	TempUnit             *string         `json:"temp_unit,omitempty"`
	AvailabilitySchedule json.RawMessage `json:"availability_schedule,omitempty"`
}

// AddImageInput represents an image upload for a cold room gallery.
type AddImageInput struct {
	Caption     string
	IsPrimary   bool
	ContentType string
	Body        io.Reader
}

// ColdRoomUsecase defines the owner-scoped listing operations.
type ColdRoomUsecase interface {
	// Create validates the input and persists the cold room together with its
	// PENDING verification record in a single transaction.
	Create(ctx context.Context, actor authz.Actor, input *CreateColdRoomInput) (*entity.ColdRoom, error)

	// ListOwn retrieves all listings belonging to the actor.
	ListOwn(ctx context.Context, actor authz.Actor) ([]*entity.ColdRoom, error)

	// Get retrieves a single listing. Non-owners are rejected.
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*entity.ColdRoom, error)

	// Update applies a partial update to a listing. Non-owners are rejected.
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input *UpdateColdRoomInput) (*entity.ColdRoom, error)

	// Delete removes a listing and, by cascade, its verification record and images.
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error

	// AddImage stores an image in the document bucket and records it in the gallery.
	AddImage(ctx context.Context, actor authz.Actor, id uuid.UUID, input *AddImageInput) (*entity.ColdRoomImage, error)

	// ListImages retrieves the gallery for a listing, primary image first.
	ListImages(ctx context.Context, actor authz.Actor, id uuid.UUID) ([]*entity.ColdRoomImage, error)
}
