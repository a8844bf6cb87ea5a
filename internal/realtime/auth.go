package realtime

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionContext is everything the hub needs to know about a socket,
// resolved once during the handshake and never mutated afterwards.
type ConnectionContext struct {
	UserID          uuid.UUID
	IsRootAdmin     bool
	OrganizationIDs []uuid.UUID
	ClubIDs         []uuid.UUID
	Rooms           []string
}

// Authenticator validates handshake tokens and resolves membership scopes
// into a room set before a socket joins the hub.
type Authenticator struct {
	tokenSecret string
	memberships repository.MembershipRepository
	log         *zap.Logger
}

func NewAuthenticator(tokenSecret string, memberships repository.MembershipRepository, log *zap.Logger) *Authenticator {
	return &Authenticator{
		tokenSecret: tokenSecret,
		memberships: memberships,
		log:         log.With(zap.String("component", "realtime_auth")),
	}
}

// Authenticate verifies the token and builds the connection context. Club
// visibility expands only for organizations the user administers: an org
// admin joins every club room under those organizations without per-club
// rows, while a plain org member keeps just their own club memberships.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*ConnectionContext, error) {
	claims, err := auth.ParseValidate([]byte(a.tokenSecret), token)
	if err != nil {
		return nil, fmt.Errorf("validate connection token: %w", err)
	}

	userID, err := uuid.Parse(claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}

	scopes, err := a.memberships.ResolveScopes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve membership scopes: %w", err)
	}

	clubIDs := scopes.ClubIDs
	if len(scopes.AdminOrganizationIDs) > 0 {
		orgClubs, err := a.memberships.ClubIDsByOrganizations(ctx, scopes.AdminOrganizationIDs)
		if err != nil {
			return nil, fmt.Errorf("expand administered organization clubs: %w", err)
		}
		clubIDs = mergeIDs(clubIDs, orgClubs)
	}

	expanded := &entity.AccessScopes{
		UserID:          userID,
		IsRootAdmin:     scopes.IsRootAdmin,
		OrganizationIDs: scopes.OrganizationIDs,
		ClubIDs:         clubIDs,
	}

	conn := &ConnectionContext{
		UserID:          userID,
		IsRootAdmin:     scopes.IsRootAdmin,
		OrganizationIDs: scopes.OrganizationIDs,
		ClubIDs:         clubIDs,
		Rooms:           ResolveRooms(expanded),
	}

	a.log.Debug("Connection authenticated",
		zap.String("user_id", userID.String()),
		zap.Strings("rooms", conn.Rooms),
	)

	return conn, nil
}

func mergeIDs(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a)+len(b))
	merged := make([]uuid.UUID, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
