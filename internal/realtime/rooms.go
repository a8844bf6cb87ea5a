package realtime

import (
	"sort"

	"court-booking/internal/data/entity"

	"github.com/google/uuid"
)

// RoomRootAdmin receives every event on the platform.
const RoomRootAdmin = "root_admin"

func RoomOrganization(orgID uuid.UUID) string {
	return "organization:" + orgID.String()
}

func RoomClub(clubID uuid.UUID) string {
	return "club:" + clubID.String()
}

// ResolveRooms computes the room set for a connection from its resolved
// membership scopes. The result is deduplicated, sorted, and fixed for the
// life of the connection; membership changes take effect on reconnect.
func ResolveRooms(scopes *entity.AccessScopes) []string {
	seen := make(map[string]struct{})

	if scopes.IsRootAdmin {
		seen[RoomRootAdmin] = struct{}{}
	}
	for _, orgID := range scopes.OrganizationIDs {
		seen[RoomOrganization(orgID)] = struct{}{}
	}
	for _, clubID := range scopes.ClubIDs {
		seen[RoomClub(clubID)] = struct{}{}
	}

	rooms := make([]string, 0, len(seen))
	for room := range seen {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}
