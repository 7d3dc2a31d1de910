// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ColdRoom is the central entity of the marketplace: a cold-storage facility
// listed by an owner and rented out to farmers.
type ColdRoom struct {
	ID                   uuid.UUID       // The Global Unique Identifier (GUID) for the cold room.
	OwnerID              uuid.UUID       // The identity that created the listing. Immutable after creation.
	Name                 string          // Short display label for the facility.
	Description          string          // Free-text description of the facility.
	Address              string          // Human-readable street address.
	Latitude             float64         // Geographic latitude (WGS84).
	Longitude            float64         // Geographic longitude (WGS84).
	CapacityKg           int             // Storage capacity in kilograms. Always positive.
	PricePerKgPerMonth   float64         // Listed rental price per kilogram per month.
	Features             []string        // Facility features, e.g. "backup generator", "24h access".
	TempMin              float64         // Lower bound of the operating temperature range.
	TempMax              float64         // Upper bound of the operating temperature range. TempMin <= TempMax.
	TempUnit             TemperatureUnit // Unit of the temperature range.
	AvailabilitySchedule json.RawMessage // Opaque time-slot payload, passed through unmodified.
	Verification         *Verification   // The paired verification record. Exactly one exists per cold room.
	CreatedAt            time.Time       // Timestamp of when this listing was created.
	UpdatedAt            time.Time       // Timestamp of the last modification.
}

// IsVerified reports whether the cold room is publicly visible.
// Visibility is derived solely from the paired verification record so the
// flag can never diverge from the review status.
func (c *ColdRoom) IsVerified() bool {
	return c.Verification != nil && c.Verification.Status == VerificationApproved
}

// ColdRoomImage is a gallery entry for a cold room. The image bytes live in
// the external blob store; only the key is tracked here.
type ColdRoomImage struct {
	ID         uuid.UUID // The unique ID for this image record.
	ColdRoomID uuid.UUID // The cold room this image belongs to.
	BlobKey    string    // Key of the stored object in the document bucket.
	URL        string    // Time-limited read URL. Populated on read, never stored.
	Caption    string    // Optional caption.
	IsPrimary  bool      // Whether this is the listing's primary image.
	UploadedAt time.Time // Timestamp of the upload.
}
