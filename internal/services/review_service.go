package services

import (
	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
	"travelapp/internal/repositories"
	"travelapp/internal/utils"
)

// ReviewService handles reviews nested under listings. Deletion is restricted
// to the review's author.
type ReviewService struct {
	Reviews   repositories.ReviewRepo
	Listings  repositories.ListingRepo
	RequestID string
}

func (s ReviewService) Create(listingID, userID int64, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	if _, err := s.Listings.GetByID(listingID); err != nil {
		return models.Review{}, err
	}

	rv := models.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    rating,
		Comment:   utils.TrimOrEmpty(comment),
	}
	id, err := s.Reviews.Create(rv)
	if err != nil {
		return models.Review{}, domain.InternalError{Err: err}
	}
	rv.ID = id
	return rv, nil
}

func (s ReviewService) ListByListing(listingID int64) ([]models.Review, error) {
	if _, err := s.Listings.GetByID(listingID); err != nil {
		return nil, err
	}
	out, err := s.Reviews.ListByListing(listingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s ReviewService) Delete(id, requesterID int64) error {
	rv, err := s.Reviews.GetByID(id)
	if err != nil {
		return err
	}
	if rv.UserID != requesterID {
		return domain.PermissionError{Resource: "review", Msg: "you can only delete your own reviews"}
	}
	if err := s.Reviews.Delete(id); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
