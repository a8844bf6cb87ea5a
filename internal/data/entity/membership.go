package entity

import (
	"github.com/google/uuid"
)

type MembershipRole string

const (
	MembershipRoleRootAdmin MembershipRole = "root_admin"
	MembershipRoleOrgAdmin  MembershipRole = "org_admin"
	MembershipRoleMember    MembershipRole = "member"
)

// Membership grants a user a role inside an organization or a single club.
// Root-admin rows carry neither scope.
type Membership struct {
	BaseSimple
	UserID         uuid.UUID      `db:"user_id"`
	OrganizationID *uuid.UUID     `db:"organization_id"`
	ClubID         *uuid.UUID     `db:"club_id"`
	Role           MembershipRole `db:"role"`
}

// AccessScopes is the resolved view of a user's memberships, the input for
// room resolution at connect time.
type AccessScopes struct {
	UserID               uuid.UUID
	IsRootAdmin          bool
	OrganizationIDs      []uuid.UUID
	AdminOrganizationIDs []uuid.UUID
	ClubIDs              []uuid.UUID
}
