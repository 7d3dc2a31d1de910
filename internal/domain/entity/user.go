// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account: a farmer seeking storage space or a
// cold-room owner listing facilities. Administrators are flagged separately.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email     string    // The user's primary contact email, used as a login identifier.
	Name      string    // The user's display name or real name.
	Phone     string    // Optional contact phone number.
	UserType  Role      // Either RoleFarmer or RoleColdRoomOwner.
	IsAdmin   bool      // Whether this account may review verifications.
	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// Roles returns the role claims carried by this user's access tokens.
func (u *User) Roles() Roles {
	roles := Roles{u.UserType}
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	return roles
}
