package models

import "time"

// Booking represents a completed cinema reservation
type Booking struct {
	ID        string `json:"id"`
	Reference string `json:"reference"` // Short code shared with the customer
	Phone     string `json:"phone"`

	// What was booked
	Movie       string `json:"movie"`
	Showtime    string `json:"showtime"`
	Location    string `json:"location"`
	Cinema      string `json:"cinema"`
	SeatType    string `json:"seat_type"`
	SeatCount   int    `json:"seat_count"`
	SeatNumbers string `json:"seat_numbers"` // Comma separated, e.g. "A1,B2"

	// Payment
	PaymentOption string  `json:"payment_option"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`

	Status string `json:"status"` // "confirmed", "paid", "cancelled"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingStatus constants
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPaid      = "paid"
	BookingStatusCancelled = "cancelled"
)
