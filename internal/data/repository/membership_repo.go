package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MembershipRepository interface {
	// ResolveScopes flattens a user's membership rows into the scope sets
	// used for room resolution.
	ResolveScopes(ctx context.Context, userID uuid.UUID) (*entity.AccessScopes, error)

	// ClubIDsByOrganizations lists every club under the given organizations.
	ClubIDsByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]uuid.UUID, error)
}

type membershipRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMembershipRepository(db database.PgxIface, log *zap.Logger) MembershipRepository {
	return &membershipRepository{
		db:  db,
		log: log.With(zap.String("repository", "membership")),
	}
}

func (r *membershipRepository) ResolveScopes(ctx context.Context, userID uuid.UUID) (*entity.AccessScopes, error) {
	query := `
		SELECT organization_id, club_id, role
		FROM memberships
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to load memberships",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("load memberships for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	scopes := &entity.AccessScopes{UserID: userID}
	for rows.Next() {
		var orgID, clubID *uuid.UUID
		var role entity.MembershipRole
		if err := rows.Scan(&orgID, &clubID, &role); err != nil {
			return nil, fmt.Errorf("scan membership row: %w", err)
		}

		switch {
		case role == entity.MembershipRoleRootAdmin:
			scopes.IsRootAdmin = true
		case orgID != nil:
			scopes.OrganizationIDs = append(scopes.OrganizationIDs, *orgID)
			if role == entity.MembershipRoleOrgAdmin {
				scopes.AdminOrganizationIDs = append(scopes.AdminOrganizationIDs, *orgID)
			}
		case clubID != nil:
			scopes.ClubIDs = append(scopes.ClubIDs, *clubID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read membership rows: %w", err)
	}

	return scopes, nil
}

func (r *membershipRepository) ClubIDsByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM clubs WHERE organization_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, orgIDs)
	if err != nil {
		r.log.Error("Failed to list clubs by organizations", zap.Error(err))
		return nil, fmt.Errorf("list clubs by organizations: %w", err)
	}
	defer rows.Close()

	var clubIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan club id: %w", err)
		}
		clubIDs = append(clubIDs, id)
	}

	return clubIDs, rows.Err()
}
