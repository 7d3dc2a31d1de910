package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"coldstore/internal/domain/entity"
)

func TestActor_IsAdmin(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleFarmer, entity.RoleAdmin}}
	owner := Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}

	assert.True(t, admin.IsAdmin())
	assert.False(t, owner.IsAdmin())
}

func TestCanManageColdRoom(t *testing.T) {
	ownerID := uuid.New()
	room := &entity.ColdRoom{ID: uuid.New(), OwnerID: ownerID}

	owner := Actor{UserID: ownerID, Roles: entity.Roles{entity.RoleColdRoomOwner}}
	stranger := Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}
	admin := Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleAdmin}}

	assert.True(t, CanManageColdRoom(owner, room))
	assert.False(t, CanManageColdRoom(stranger, room))
	// Administrators review listings, they do not edit them.
	assert.False(t, CanManageColdRoom(admin, room))
	assert.False(t, CanManageColdRoom(owner, nil))
}

func TestCanCreateColdRoom(t *testing.T) {
	assert.True(t, CanCreateColdRoom(Actor{Roles: entity.Roles{entity.RoleColdRoomOwner}}))
	assert.False(t, CanCreateColdRoom(Actor{Roles: entity.Roles{entity.RoleFarmer}}))
	assert.False(t, CanCreateColdRoom(Actor{Roles: entity.Roles{entity.RoleAdmin}}))
}

func TestCanReviewVerification(t *testing.T) {
	assert.True(t, CanReviewVerification(Actor{Roles: entity.Roles{entity.RoleFarmer, entity.RoleAdmin}}))
	assert.False(t, CanReviewVerification(Actor{Roles: entity.Roles{entity.RoleColdRoomOwner}}))
}
