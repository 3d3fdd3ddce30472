package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingSession stores a persisted conversation session between turns
type BookingSession struct {
	gorm.Model
	PhoneNumber string    `json:"phone_number" gorm:"uniqueIndex"`
	CurrentStep string    `json:"current_step"`
	Slots       string    `json:"slots"` // JSON string holding confirmed slot values
	ExpiresAt   time.Time `json:"expires_at"`
}
