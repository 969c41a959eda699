package models

import "time"

// Listing is a property a host offers for booking. PricePerNight is a whole
// amount in ETB.
type Listing struct {
	ID            int64     `json:"id"`
	HostID        int64     `json:"host_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight int64     `json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
