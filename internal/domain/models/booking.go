package models

import "time"

// Booking ties a guest to a listing for a date range. The ID is a
// server-generated UUID and doubles as the payment transaction reference
// (tx_ref) on the gateway side, one-to-one, never reused.
type Booking struct {
	ID         string    `json:"id"`
	ListingID  int64     `json:"listing_id"`
	UserID     int64     `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
