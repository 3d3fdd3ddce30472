package storage

import (
	"fmt"
	"strings"
	"time"

	"sync"

	"github.com/google/uuid"

	"github.com/easycinema/athena-backend/internal/flow"
	"github.com/easycinema/athena-backend/internal/models"
)

// MemoryStore holds all data in memory, for development and tests
type MemoryStore struct {
	sessions map[string]*flow.Session
	bookings map[string]*models.Booking

	sessionMu sync.RWMutex
	bookingMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*flow.Session),
		bookings: make(map[string]*models.Booking),
	}
}

// Session operations

func (m *MemoryStore) GetSession(phone string) (*flow.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[phone]
	if !exists {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func (m *MemoryStore) SaveSession(session *flow.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	m.sessions[session.Phone] = session
	return nil
}

func (m *MemoryStore) DeleteSession(phone string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, phone)
	return nil
}

// Booking operations

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	now := time.Now()
	booking.ID = uuid.NewString()
	booking.Reference = newBookingReference()
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *MemoryStore) GetBookingByReference(reference string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	for _, booking := range m.bookings {
		if booking.Reference == reference {
			return booking, nil
		}
	}
	return nil, fmt.Errorf("booking not found")
}

func (m *MemoryStore) GetBookingsByPhone(phone string) ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	var bookings []*models.Booking
	for _, booking := range m.bookings {
		if booking.Phone == phone {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

// newBookingReference returns a short customer-facing code like "BK-3F2A9C1D".
func newBookingReference() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "BK-" + fragment
}
