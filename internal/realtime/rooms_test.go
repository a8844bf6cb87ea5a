package realtime

import (
	"testing"

	"court-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveRoomsMember(t *testing.T) {
	clubA := uuid.New()
	clubB := uuid.New()

	rooms := ResolveRooms(&entity.AccessScopes{
		UserID:  uuid.New(),
		ClubIDs: []uuid.UUID{clubA, clubB, clubA},
	})

	assert.Len(t, rooms, 2)
	assert.Contains(t, rooms, RoomClub(clubA))
	assert.Contains(t, rooms, RoomClub(clubB))
	assert.NotContains(t, rooms, RoomRootAdmin)
}

func TestResolveRoomsOrgAdmin(t *testing.T) {
	orgID := uuid.New()
	clubID := uuid.New()

	rooms := ResolveRooms(&entity.AccessScopes{
		UserID:          uuid.New(),
		OrganizationIDs: []uuid.UUID{orgID},
		ClubIDs:         []uuid.UUID{clubID},
	})

	assert.Len(t, rooms, 2)
	assert.Contains(t, rooms, RoomOrganization(orgID))
	assert.Contains(t, rooms, RoomClub(clubID))
}

func TestResolveRoomsRootAdmin(t *testing.T) {
	rooms := ResolveRooms(&entity.AccessScopes{
		UserID:      uuid.New(),
		IsRootAdmin: true,
	})

	assert.Equal(t, []string{RoomRootAdmin}, rooms)
}

func TestResolveRoomsSorted(t *testing.T) {
	scopes := &entity.AccessScopes{
		UserID:          uuid.New(),
		IsRootAdmin:     true,
		OrganizationIDs: []uuid.UUID{uuid.New(), uuid.New()},
		ClubIDs:         []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
	}

	rooms := ResolveRooms(scopes)
	assert.Len(t, rooms, 6)
	assert.IsIncreasing(t, rooms)
}
