package domain

import "time"

// Booking status values. A booking is created pending, moves to confirmed
// only through a successful payment verification, and to canceled only
// through an explicit owner action. Confirmed and canceled are terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCanceled  = "canceled"
)

// Nights counts billable nights for a stay, inclusive of both endpoints:
// start == end is one night. End before start is a validation error.
// Dates are calendar days; both endpoints are normalized to midnight UTC so
// a DST transition inside the span cannot shift the count.
func Nights(start, end time.Time) (int, error) {
	s := midnightUTC(start)
	e := midnightUTC(end)
	if e.Before(s) {
		return 0, ValidationError{Field: "end_date", Msg: "must not be before start_date"}
	}
	days := int(e.Sub(s).Hours() / 24)
	return days + 1, nil
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalPrice computes the booking total from the listing's nightly rate.
func TotalPrice(pricePerNight int64, start, end time.Time) (int64, error) {
	if pricePerNight <= 0 {
		return 0, ValidationError{Field: "price_per_night", Msg: "must be positive"}
	}
	nights, err := Nights(start, end)
	if err != nil {
		return 0, err
	}
	return pricePerNight * int64(nights), nil
}
