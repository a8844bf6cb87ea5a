package repository

import (
	"context"

	"court-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Querier is the subset of PgxIface shared with pgx.Tx, so queries can run
// either on the pool or inside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	Court        CourtRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Membership   MembershipRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Court:        NewCourtRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Membership:   NewMembershipRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}
