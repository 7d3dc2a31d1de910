package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationModel mirrors the 'verifications' table. The unique index on
// ColdRoomID enforces the one-to-one pairing at the schema level.
type VerificationModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ColdRoomID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	SubmittedAt      time.Time `gorm:"not null"`
	ReviewedAt       *time.Time
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
	Notes            string     `gorm:"type:text"`
	DocumentationKey string     `gorm:"type:varchar(500)"`
}

// TableName explicitly sets the table name for GORM.
func (VerificationModel) TableName() string {
	return "verifications"
}
