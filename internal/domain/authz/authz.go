// Package authz contains explicit authorization checks. Every check takes the
// acting identity and the target resource and returns allow/deny; handlers and
// use cases invoke them before any mutation runs.
package authz

import (
	"coldstore/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID uuid.UUID
	Roles  entity.Roles
}

// IsAdmin reports whether the actor carries the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Roles.Contains(entity.RoleAdmin)
}

// CanManageColdRoom reports whether the actor may read or mutate the listing.
// Only the owning identity qualifies; administrators go through the
// verification workflow instead of editing listings directly.
func CanManageColdRoom(actor Actor, room *entity.ColdRoom) bool {
	return room != nil && actor.UserID == room.OwnerID
}

// CanCreateColdRoom reports whether the actor may create listings.
func CanCreateColdRoom(actor Actor) bool {
	return actor.Roles.Contains(entity.RoleColdRoomOwner)
}

// CanReviewVerification reports whether the actor may read or transition
// verification records.
func CanReviewVerification(actor Actor) bool {
	return actor.IsAdmin()
}
