package services

import (
	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
	"travelapp/internal/repositories"
	"travelapp/internal/utils"
)

// ListingService handles listing CRUD. Mutation and deletion are restricted
// to the owning host.
type ListingService struct {
	Listings  repositories.ListingRepo
	RequestID string
}

type ListingInput struct {
	Title         string
	Description   string
	Location      string
	PricePerNight int64
}

func (in ListingInput) validate() error {
	if utils.TrimOrEmpty(in.Title) == "" {
		return domain.ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if in.PricePerNight <= 0 {
		return domain.ValidationError{Field: "price_per_night", Msg: "must be positive"}
	}
	return nil
}

func (s ListingService) Create(hostID int64, in ListingInput) (models.Listing, error) {
	if err := in.validate(); err != nil {
		return models.Listing{}, err
	}
	l := models.Listing{
		HostID:        hostID,
		Title:         utils.NormalizeSpace(in.Title),
		Description:   utils.TrimOrEmpty(in.Description),
		Location:      utils.TrimOrEmpty(in.Location),
		PricePerNight: in.PricePerNight,
	}
	id, err := s.Listings.Create(l)
	if err != nil {
		return models.Listing{}, domain.InternalError{Err: err}
	}
	l.ID = id
	utils.LogEvent(s.RequestID, "listing", "create", "id="+utils.FormatID(id))
	return l, nil
}

func (s ListingService) Get(id int64) (models.Listing, error) {
	return s.Listings.GetByID(id)
}

func (s ListingService) List(location string, maxPrice int64) ([]models.Listing, error) {
	out, err := s.Listings.List(location, maxPrice)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s ListingService) Update(id, requesterID int64, in ListingInput) (models.Listing, error) {
	if err := in.validate(); err != nil {
		return models.Listing{}, err
	}
	existing, err := s.Listings.GetByID(id)
	if err != nil {
		return models.Listing{}, err
	}
	if existing.HostID != requesterID {
		return models.Listing{}, domain.PermissionError{Resource: "listing", Msg: "you can only update your own listings"}
	}

	existing.Title = utils.NormalizeSpace(in.Title)
	existing.Description = utils.TrimOrEmpty(in.Description)
	existing.Location = utils.TrimOrEmpty(in.Location)
	existing.PricePerNight = in.PricePerNight
	if err := s.Listings.Update(existing); err != nil {
		return models.Listing{}, domain.InternalError{Err: err}
	}
	return existing, nil
}

func (s ListingService) Delete(id, requesterID int64) error {
	existing, err := s.Listings.GetByID(id)
	if err != nil {
		return err
	}
	if existing.HostID != requesterID {
		return domain.PermissionError{Resource: "listing", Msg: "you can only delete your own listings"}
	}
	if err := s.Listings.Delete(id); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "listing", "delete", "id="+utils.FormatID(id))
	return nil
}
