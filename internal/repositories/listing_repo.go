package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "travelapp/internal/config"
	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
)

type ListingRepo struct {
	DB *sql.DB
}

func (r ListingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const listingColumns = `id, host_id, title, description, location, price_per_night, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID,
		&l.HostID,
		&l.Title,
		&l.Description,
		&l.Location,
		&l.PricePerNight,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r ListingRepo) Create(l models.Listing) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO listings (host_id, title, description, location, price_per_night, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		l.HostID, l.Title, l.Description, l.Location, l.PricePerNight,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

func (r ListingRepo) GetByID(id int64) (models.Listing, error) {
	row := r.db().QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id=? LIMIT 1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Listing{}, domain.NotFoundError{Resource: "listing", Err: err}
		}
		return models.Listing{}, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// List returns listings, optionally filtered by location substring and a
// price ceiling (0 = no ceiling).
func (r ListingRepo) List(location string, maxPrice int64) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings`
	var conds []string
	var args []any
	if strings.TrimSpace(location) != "" {
		conds = append(conds, `location LIKE ?`)
		args = append(args, "%"+strings.TrimSpace(location)+"%")
	}
	if maxPrice > 0 {
		conds = append(conds, `price_per_night <= ?`)
		args = append(args, maxPrice)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return out, nil
}

func (r ListingRepo) Update(l models.Listing) error {
	_, err := r.db().Exec(`
		UPDATE listings SET title=?, description=?, location=?, price_per_night=?, updated_at=NOW()
		WHERE id=?`,
		l.Title, l.Description, l.Location, l.PricePerNight, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

func (r ListingRepo) Delete(id int64) error {
	if _, err := r.db().Exec(`DELETE FROM listings WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}
