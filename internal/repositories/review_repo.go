package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	intconfig "travelapp/internal/config"
	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
)

type ReviewRepo struct {
	DB *sql.DB
}

func (r ReviewRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ReviewRepo) Create(review models.Review) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO reviews (listing_id, user_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		review.ListingID, review.UserID, review.Rating, review.Comment,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to create review: %w", err)
	}
	return id, nil
}

func (r ReviewRepo) GetByID(id int64) (models.Review, error) {
	var rv models.Review
	err := r.db().QueryRow(`
		SELECT id, listing_id, user_id, rating, comment, created_at
		FROM reviews WHERE id=? LIMIT 1`, id).Scan(
		&rv.ID,
		&rv.ListingID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, domain.NotFoundError{Resource: "review", Err: err}
		}
		return models.Review{}, fmt.Errorf("failed to get review: %w", err)
	}
	return rv, nil
}

func (r ReviewRepo) ListByListing(listingID int64) ([]models.Review, error) {
	rows, err := r.db().Query(`
		SELECT id, listing_id, user_id, rating, comment, created_at
		FROM reviews WHERE listing_id=?
		ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return out, nil
}

func (r ReviewRepo) Delete(id int64) error {
	if _, err := r.db().Exec(`DELETE FROM reviews WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
