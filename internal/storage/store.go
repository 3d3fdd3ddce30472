package storage

import (
	"sync"

	"github.com/easycinema/athena-backend/internal/flow"
	"github.com/easycinema/athena-backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Session operations
	GetSession(phone string) (*flow.Session, error)
	SaveSession(session *flow.Session) error
	DeleteSession(phone string) error

	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBookingByReference(reference string) (*models.Booking, error)
	GetBookingsByPhone(phone string) ([]*models.Booking, error)
}
