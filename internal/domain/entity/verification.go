// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents the review state of a cold room listing.
type VerificationStatus string

const (
	// VerificationPending indicates the listing is awaiting administrative review.
	VerificationPending VerificationStatus = "PENDING"
	// VerificationApproved indicates the listing passed review and is publicly visible.
	VerificationApproved VerificationStatus = "APPROVED"
	// VerificationRejected indicates the listing failed review.
	VerificationRejected VerificationStatus = "REJECTED"
)

// String returns the string representation of the VerificationStatus.
func (s VerificationStatus) String() string {
	return string(s)
}

// IsValid checks if the VerificationStatus is a valid value.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether an administrator may move a record from s
// to next. Reviewed states stay correctable: an approval can be revoked and a
// rejection overturned, but nothing ever returns to PENDING.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	if !next.IsValid() || next == s {
		return false
	}

	switch s {
	case VerificationPending:
		return next == VerificationApproved || next == VerificationRejected
	case VerificationApproved:
		return next == VerificationRejected
	case VerificationRejected:
		return next == VerificationApproved
	default:
		return false
	}
}

// Verification tracks the administrative review of a single cold room.
// Exactly one record exists per cold room, created in PENDING state inside
// the same transaction as the listing itself.
type Verification struct {
	ID               uuid.UUID          // The unique ID for this verification record.
	ColdRoomID       uuid.UUID          // The cold room under review. One-to-one.
	Status           VerificationStatus // Current review state.
	SubmittedAt      time.Time          // Set at creation, immutable.
	ReviewedAt       *time.Time         // Timestamp of the last status transition. Nil until reviewed.
	ReviewedBy       *uuid.UUID         // The administrator who performed the last transition. Nil until reviewed.
	Notes            string             // Administrator-authored rationale.
	DocumentationKey string             // Blob-store key of supporting documentation, if any.
}
