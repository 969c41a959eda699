package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	intconfig "travelapp/internal/config"
	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, listing_id, user_id, start_date, end_date, total_price, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.ListingID,
		&b.UserID,
		&b.StartDate,
		&b.EndDate,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// Create inserts a new pending booking. The id is generated by the service
// layer, never taken from the caller.
func (r BookingRepo) Create(b models.Booking) error {
	_, err := r.db().Exec(`
		INSERT INTO bookings (id, listing_id, user_id, start_date, end_date, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		b.ID, b.ListingID, b.UserID, b.StartDate, b.EndDate, b.TotalPrice, b.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r BookingRepo) GetByID(id string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListForGuest returns the guest's own bookings, newest first. listingID 0
// means no listing filter.
func (r BookingRepo) ListForGuest(userID, listingID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id=?`
	args := []any{userID}
	if listingID > 0 {
		query += ` AND listing_id=?`
		args = append(args, listingID)
	}
	query += ` ORDER BY created_at DESC`
	return r.list(query, args...)
}

// ListForHost returns bookings made against any of the host's listings.
func (r BookingRepo) ListForHost(hostID, listingID int64) ([]models.Booking, error) {
	query := `
		SELECT b.id, b.listing_id, b.user_id, b.start_date, b.end_date, b.total_price, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE l.host_id=?`
	args := []any{hostID}
	if listingID > 0 {
		query += ` AND b.listing_id=?`
		args = append(args, listingID)
	}
	query += ` ORDER BY b.created_at DESC`
	return r.list(query, args...)
}

func (r BookingRepo) list(query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return out, nil
}

// Confirm flips a pending booking to confirmed. The status guard in the
// WHERE clause is the per-booking mutual exclusion: of two concurrent
// verifications only one update takes effect, the other sees zero rows.
func (r BookingRepo) Confirm(id string) (bool, error) {
	res, err := r.db().Exec(
		`UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?`,
		domain.BookingConfirmed, id, domain.BookingPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to confirm booking: %w", err)
	}
	return affected > 0, nil
}

// Cancel flips a pending booking to canceled, guarded the same way as
// Confirm so a concurrent confirmation cannot be overwritten.
func (r BookingRepo) Cancel(id string) (bool, error) {
	res, err := r.db().Exec(
		`UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?`,
		domain.BookingCanceled, id, domain.BookingPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return affected > 0, nil
}
