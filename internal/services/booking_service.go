package services

import (
	"context"
	"time"

	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
	"travelapp/internal/payment"
	"travelapp/internal/repositories"
	"travelapp/internal/utils"

	"github.com/google/uuid"
)

// PaymentGateway is the slice of the Chapa client the booking flow needs.
// Kept as an interface so tests can drive the state machine without a
// network.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req payment.InitializeRequest) (string, error)
	VerifyTransaction(ctx context.Context, reference string) (payment.VerifyResult, error)
}

// BookingService owns the booking lifecycle: pending on creation, confirmed
// only by a successful verification, canceled only by the owner. A pending
// booking stays pending indefinitely; there is no expiry sweep.
type BookingService struct {
	Bookings repositories.BookingRepo
	Listings repositories.ListingRepo
	Users    repositories.UserRepo
	Gateway  PaymentGateway

	// PublicBaseURL is the externally reachable base for the provider's
	// callback/return URLs.
	PublicBaseURL string
	RequestID     string
}

type CreateBookingInput struct {
	ListingID int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
}

// Create validates dates against the listing, computes the total price and
// persists a pending booking under a server-generated identifier. The
// identifier doubles as the payment transaction reference.
func (s BookingService) Create(in CreateBookingInput) (models.Booking, error) {
	listing, err := s.Listings.GetByID(in.ListingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, domain.ValidationError{Field: "listing_id", Msg: "unknown listing", Err: err}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	total, err := domain.TotalPrice(listing.PricePerNight, in.StartDate, in.EndDate)
	if err != nil {
		return models.Booking{}, err
	}

	b := models.Booking{
		ID:         uuid.NewString(),
		ListingID:  in.ListingID,
		UserID:     in.UserID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: total,
		Status:     domain.BookingPending,
	}
	if err := s.Bookings.Create(b); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "create", "id="+b.ID)
	return b, nil
}

// InitiatePayment asks the gateway for a checkout URL using the booking id
// as transaction reference. The booking stays pending either way: success
// defers confirmation to explicit verification, and on failure the record is
// deliberately not rolled back.
func (s BookingService) InitiatePayment(ctx context.Context, b models.Booking) (string, error) {
	payer, err := s.Users.GetByID(b.UserID)
	if err != nil {
		return "", domain.InternalError{Err: err}
	}

	verifyURL := s.PublicBaseURL + "/api/payments/verify/" + b.ID
	checkoutURL, err := s.Gateway.InitializeTransaction(ctx, payment.InitializeRequest{
		Reference:   b.ID,
		Amount:      b.TotalPrice,
		Email:       payer.Email,
		FirstName:   payer.FirstName,
		LastName:    payer.LastName,
		CallbackURL: verifyURL,
		ReturnURL:   verifyURL,
		Title:       "Booking Payment",
		Description: "Payment for booking",
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "initialize_failed", "reference="+b.ID+" err="+err.Error())
		return "", domain.PaymentInitiationError{Reference: b.ID, Err: err}
	}

	utils.LogEvent(s.RequestID, "payment", "initialize", "reference="+b.ID)
	return checkoutURL, nil
}

// VerifyAndConfirm reconciles a provider callback into a booking status.
// The local lookup runs before any network call, so an unknown reference
// never costs a gateway round trip. Re-verifying an already confirmed
// booking is a no-op success.
func (s BookingService) VerifyAndConfirm(ctx context.Context, reference string) (models.Booking, error) {
	b, err := s.Bookings.GetByID(reference)
	if err != nil {
		return models.Booking{}, err
	}

	switch b.Status {
	case domain.BookingConfirmed:
		return b, nil
	case domain.BookingCanceled:
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "booking is canceled"}
	}

	res, err := s.Gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "verify_unavailable", "reference="+reference+" err="+err.Error())
		return models.Booking{}, domain.VerificationUnavailableError{Reference: reference, Err: err}
	}
	if !res.Paid {
		utils.LogEvent(s.RequestID, "payment", "verify_declined", "reference="+reference+" status="+res.Status)
		return models.Booking{}, domain.PaymentNotSuccessfulError{Reference: reference, Status: res.Status}
	}

	confirmed, err := s.Bookings.Confirm(reference)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !confirmed {
		// Lost the race: a concurrent verification already applied the
		// transition. Re-read and treat a confirmed row as success.
		b, err = s.Bookings.GetByID(reference)
		if err != nil {
			return models.Booking{}, err
		}
		if b.Status != domain.BookingConfirmed {
			return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "booking is " + b.Status}
		}
		return b, nil
	}

	utils.LogEvent(s.RequestID, "booking", "confirm", "id="+reference)
	b.Status = domain.BookingConfirmed
	return b, nil
}

// Cancel transitions a booking to canceled. Only the booking's owner may
// cancel, and never after confirmation.
func (s BookingService) Cancel(id string, requesterID int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != requesterID {
		return models.Booking{}, domain.PermissionError{Resource: "booking"}
	}
	if b.Status == domain.BookingConfirmed {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "cannot cancel a confirmed booking"}
	}
	if b.Status == domain.BookingCanceled {
		return b, nil
	}

	canceled, err := s.Bookings.Cancel(id)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !canceled {
		b, err = s.Bookings.GetByID(id)
		if err != nil {
			return models.Booking{}, err
		}
		if b.Status == domain.BookingConfirmed {
			return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "cannot cancel a confirmed booking"}
		}
		return b, nil
	}

	utils.LogEvent(s.RequestID, "booking", "cancel", "id="+id)
	b.Status = domain.BookingCanceled
	return b, nil
}

// Get returns a booking to its guest or to the host of the booked listing.
func (s BookingService) Get(id string, requesterID int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID == requesterID {
		return b, nil
	}
	listing, err := s.Listings.GetByID(b.ListingID)
	if err == nil && listing.HostID == requesterID {
		return b, nil
	}
	return models.Booking{}, domain.PermissionError{Resource: "booking", Msg: "not your booking"}
}

// List scopes bookings by role: hosts see bookings on their listings, guests
// see their own. listingID 0 means no filter.
func (s BookingService) List(requesterID int64, role string, listingID int64) ([]models.Booking, error) {
	var (
		out []models.Booking
		err error
	)
	if role == "host" {
		out, err = s.Bookings.ListForHost(requesterID, listingID)
	} else {
		out, err = s.Bookings.ListForGuest(requesterID, listingID)
	}
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}
