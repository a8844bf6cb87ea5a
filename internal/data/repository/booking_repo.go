package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const bookingColumns = `id, court_id, user_id, start_time, end_time, status,
		       reserved_at, reservation_expires_at, price_cents, coach_id,
		       created_at, updated_at`

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByClubAndRange(ctx context.Context, clubID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)

	// CreateIfFree inserts the booking inside a transaction that locks the
	// court row, lazily cancels the court's expired holds, and re-checks
	// the overlap invariant. Returns the IDs of holds cancelled on the way.
	CreateIfFree(ctx context.Context, booking *entity.Booking) ([]uuid.UUID, error)

	// HasActiveOverlap runs the overlap predicate against q, which may be
	// a transaction (the guarded write path) or nil for an advisory read
	// on the pool.
	HasActiveOverlap(ctx context.Context, q Querier, courtID, excludeID uuid.UUID, start, end, now time.Time) (bool, error)

	// MarkPaid performs the guarded reserved->paid (or pending->paid)
	// transition; any other state fails with ErrInvalidTransition.
	MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) error

	// Cancel sets status=cancelled and clears the hold fields. Cancelling
	// an already-cancelled row is a no-op; the bool reports whether a row
	// actually changed.
	Cancel(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	// CancelExpired is the sweep: every reserved row past its expiry
	// becomes cancelled. Returns the affected rows for event emission.
	CancelExpired(ctx context.Context, now time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.ReservedAt,
		&booking.ReservationExpiresAt,
		&booking.PriceCents,
		&booking.CoachID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByClubAndRange(ctx context.Context, clubID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.court_id, b.user_id, b.start_time, b.end_time, b.status,
		       b.reserved_at, b.reservation_expires_at, b.price_cents, b.coach_id,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		WHERE c.club_id = $1 AND b.start_time < $3 AND $2 < b.end_time
		ORDER BY b.start_time
	`

	rows, err := r.db.Query(ctx, query, clubID, from, to)
	if err != nil {
		r.log.Error("Failed to find bookings by club",
			zap.Error(err),
			zap.String("club_id", clubID.String()),
		)
		return nil, fmt.Errorf("find bookings by club %s: %w", clubID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// HasActiveOverlap implements the availability predicate: a candidate
// [start, end) conflicts with any paid row, or any reserved row whose hold
// has not yet expired, on the same court. Intervals are half-open.
func (r *bookingRepository) HasActiveOverlap(ctx context.Context, q Querier, courtID, excludeID uuid.UUID, start, end, now time.Time) (bool, error) {
	if q == nil {
		q = r.db
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE court_id = $1
			  AND id <> $2
			  AND start_time < $4 AND $3 < end_time
			  AND (status = 'paid'
			       OR (status = 'reserved' AND reservation_expires_at > $5))
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, courtID, excludeID, start, end, now).Scan(&exists); err != nil {
		r.log.Error("Failed to check slot overlap",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return false, fmt.Errorf("check slot overlap for court %s: %w", courtID.String(), err)
	}

	return exists, nil
}

// CreateIfFree is the only place a new booking row comes into existence.
// The court row lock serializes all mutations per court, so two concurrent
// calls cannot both observe a free slot.
func (r *bookingRepository) CreateIfFree(ctx context.Context, booking *entity.Booking) ([]uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedCourt uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM courts WHERE id = $1 FOR UPDATE`, booking.CourtID).Scan(&lockedCourt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock court %s: %w", booking.CourtID.String(), err)
	}

	now := booking.CreatedAt

	// Lazy cleanup: expired holds on this court stop blocking right here,
	// before the overlap check.
	expiredRows, err := tx.Query(ctx, `
		UPDATE bookings
		SET status = 'cancelled', reserved_at = NULL, reservation_expires_at = NULL, updated_at = $2
		WHERE court_id = $1 AND status = 'reserved' AND reservation_expires_at <= $2
		RETURNING id
	`, booking.CourtID, now)
	if err != nil {
		return nil, fmt.Errorf("cancel expired holds for court %s: %w", booking.CourtID.String(), err)
	}

	var expired []uuid.UUID
	for expiredRows.Next() {
		var id uuid.UUID
		if err := expiredRows.Scan(&id); err != nil {
			expiredRows.Close()
			return nil, fmt.Errorf("scan expired hold id: %w", err)
		}
		expired = append(expired, id)
	}
	expiredRows.Close()
	if err := expiredRows.Err(); err != nil {
		return nil, fmt.Errorf("read expired holds: %w", err)
	}

	conflict, err := r.HasActiveOverlap(ctx, tx, booking.CourtID, booking.ID, booking.StartTime, booking.EndTime, now)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, entity.ErrSlotConflict
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, court_id, user_id, start_time, end_time, status,
		                      reserved_at, reservation_expires_at, price_cents, coach_id,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		booking.ID,
		booking.CourtID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.ReservedAt,
		booking.ReservationExpiresAt,
		booking.PriceCents,
		booking.CoachID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("court_id", booking.CourtID.String()),
		)
		return nil, fmt.Errorf("insert booking %s: %w", booking.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking %s: %w", booking.ID.String(), err)
	}

	return expired, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'paid', reserved_at = NULL, reservation_expires_at = NULL, updated_at = $2
		WHERE id = $1
		  AND (status = 'pending'
		       OR (status = 'reserved' AND reservation_expires_at > $2))
	`

	result, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("mark booking %s paid: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInvalidTransition
	}

	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', reserved_at = NULL, reservation_expires_at = NULL, updated_at = $2
		WHERE id = $1 AND status <> 'cancelled'
	`

	result, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CancelExpired(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', reserved_at = NULL, reservation_expires_at = NULL, updated_at = $1
		WHERE status = 'reserved' AND reservation_expires_at <= $1
		RETURNING ` + bookingColumns + `
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to cancel expired holds", zap.Error(err))
		return nil, fmt.Errorf("cancel expired holds: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}
