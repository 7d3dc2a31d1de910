package handler

import (
	"encoding/json"
	"time"

	"coldstore/internal/domain/entity"

	"github.com/google/uuid"
)

// ColdRoomResponse is the wire representation of a cold room listing.
// The verified flag is derived from the paired verification record.
type ColdRoomResponse struct {
	ID                   uuid.UUID       `json:"id"`
	OwnerID              uuid.UUID       `json:"owner_id"`
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
	AvailabilitySchedule json.RawMessage `json:"availability_schedule,omitempty"`
	IsVerified           bool            `json:"is_verified"`
	VerificationStatus   string          `json:"verification_status,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToColdRoomResponse maps a domain cold room onto its wire representation.
func ToColdRoomResponse(room *entity.ColdRoom) *ColdRoomResponse {
	if room == nil {
		return nil
	}

	resp := &ColdRoomResponse{
		ID:                   room.ID,
		OwnerID:              room.OwnerID,
		Name:                 room.Name,
		Description:          room.Description,
		Address:              room.Address,
		Latitude:             room.Latitude,
		Longitude:            room.Longitude,
		CapacityKg:           room.CapacityKg,
		PricePerKgPerMonth:   room.PricePerKgPerMonth,
		Features:             room.Features,
		TempMin:              room.TempMin,
		TempMax:              room.TempMax,
		TempUnit:             room.TempUnit.String(),
		AvailabilitySchedule: room.AvailabilitySchedule,
		IsVerified:           room.IsVerified(),
		CreatedAt:            room.CreatedAt,
		UpdatedAt:            room.UpdatedAt,
	}
	if room.Verification != nil {
		resp.VerificationStatus = room.Verification.Status.String()
	}

	return resp
}

// ToColdRoomResponses maps a slice of domain cold rooms.
func ToColdRoomResponses(rooms []*entity.ColdRoom) []*ColdRoomResponse {
	result := make([]*ColdRoomResponse, len(rooms))
	for i, room := range rooms {
		result[i] = ToColdRoomResponse(room)
	}

	return result
}

// ImageResponse is the wire representation of a gallery image.
type ImageResponse struct {
	ID         uuid.UUID `json:"id"`
	ColdRoomID uuid.UUID `json:"cold_room_id"`
	BlobKey    string    `json:"blob_key"`
	URL        string    `json:"url,omitempty"`
	Caption    string    `json:"caption,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ToImageResponse maps a domain gallery image onto its wire representation.
func ToImageResponse(image *entity.ColdRoomImage) *ImageResponse {
	if image == nil {
		return nil
	}

	return &ImageResponse{
		ID:         image.ID,
		ColdRoomID: image.ColdRoomID,
		BlobKey:    image.BlobKey,
		URL:        image.URL,
		Caption:    image.Caption,
		IsPrimary:  image.IsPrimary,
		UploadedAt: image.UploadedAt,
	}
}

// VerificationResponse is the wire representation of a verification record.
type VerificationResponse struct {
	ID               uuid.UUID  `json:"id"`
	ColdRoomID       uuid.UUID  `json:"cold_room_id"`
	Status           string     `json:"status"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy       *uuid.UUID `json:"reviewed_by,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	DocumentationKey string     `json:"documentation_key,omitempty"`
}

// ToVerificationResponse maps a domain verification record onto its wire representation.
func ToVerificationResponse(v *entity.Verification) *VerificationResponse {
	if v == nil {
		return nil
	}

	return &VerificationResponse{
		ID:               v.ID,
		ColdRoomID:       v.ColdRoomID,
		Status:           v.Status.String(),
		SubmittedAt:      v.SubmittedAt,
		ReviewedAt:       v.ReviewedAt,
		ReviewedBy:       v.ReviewedBy,
		Notes:            v.Notes,
		DocumentationKey: v.DocumentationKey,
	}
}
