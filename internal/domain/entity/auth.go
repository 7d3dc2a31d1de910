// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ProviderTypeEmail marks an email/password credential.
	ProviderTypeEmail = "email"
	// ProviderTypeGoogle marks a linked Google account credential.
	ProviderTypeGoogle = "google"
)

// Authentication represents a single method of logging in (a credential).
// An email/password pair is one record; a linked Google account is another.
type Authentication struct {
	ID             uuid.UUID // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID // Links this authentication method to the User it belongs to.
	Provider       string    // The authentication provider, e.g. "email", "google".
	ProviderUserID string    // The user's unique ID from the external provider (email, or Google's 'sub' claim).
	PasswordHash   string    // Stores the bcrypt-hashed password, only used when the Provider is "email".
	CreatedAt      time.Time // Timestamp of when this authentication method was linked to the account.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new access token without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token for secure comparison.
	ExpiresAt time.Time // The exact time when this refresh token becomes invalid.
	CreatedAt time.Time // Timestamp of when this session was created.
}
