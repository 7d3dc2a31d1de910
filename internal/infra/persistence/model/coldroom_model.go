package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ColdRoomModel mirrors the 'cold_rooms' table. Features and the availability
// schedule are stored as jsonb; the schedule stays opaque to the backend.
type ColdRoomModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID              uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                 string    `gorm:"type:varchar(255);not null"`
	Description          string    `gorm:"type:text"`
	Address              string    `gorm:"type:varchar(500)"`
	Latitude             float64   `gorm:"not null;index:idx_cold_rooms_lat_lon"`
	Longitude            float64   `gorm:"not null;index:idx_cold_rooms_lat_lon"`
	CapacityKg           int       `gorm:"not null;check:capacity_kg > 0"`
	PricePerKgPerMonth   float64   `gorm:"type:numeric(12,4);not null"`
	Features             datatypes.JSON
	TempMin              float64 `gorm:"not null"`
	TempMax              float64 `gorm:"not null;check:temp_max >= temp_min"`
	TempUnit             string  `gorm:"type:varchar(20);not null"`
	AvailabilitySchedule datatypes.JSON
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Verification *VerificationModel   `gorm:"foreignKey:ColdRoomID;constraint:OnDelete:CASCADE"`
	Images       []ColdRoomImageModel `gorm:"foreignKey:ColdRoomID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ColdRoomModel) TableName() string {
	return "cold_rooms"
}

// ColdRoomImageModel mirrors the 'cold_room_images' table. The image bytes
// live in the blob store; only the key is persisted here.
type ColdRoomImageModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ColdRoomID uuid.UUID `gorm:"type:uuid;not null;index"`
	BlobKey    string    `gorm:"type:varchar(500);not null"`
	Caption    string    `gorm:"type:varchar(255)"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	UploadedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ColdRoomImageModel) TableName() string {
	return "cold_room_images"
}
