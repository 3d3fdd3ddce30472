package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/easycinema/athena-backend/internal/flow"
	"github.com/easycinema/athena-backend/internal/models"
)

// DatabaseStore persists sessions and bookings in PostgreSQL via gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Session operations
//
// The conversation session is serialized as a JSON blob in a single row per
// phone number; the current step is denormalized into its own column for
// observability.

func (d *DatabaseStore) GetSession(phone string) (*flow.Session, error) {
	var row models.BookingSession
	if err := d.db.Where("phone_number = ?", phone).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, err
	}

	if time.Now().After(row.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}

	var session flow.Session
	if err := json.Unmarshal([]byte(row.Slots), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (d *DatabaseStore) SaveSession(session *flow.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var row models.BookingSession
	err = d.db.Where("phone_number = ?", session.Phone).First(&row).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	row.PhoneNumber = session.Phone
	row.CurrentStep = string(session.CurrentStep)
	row.Slots = string(payload)
	row.ExpiresAt = time.Now().Add(30 * time.Minute)

	return d.db.Save(&row).Error
}

func (d *DatabaseStore) DeleteSession(phone string) error {
	return d.db.Where("phone_number = ?", phone).Delete(&models.BookingSession{}).Error
}

// Booking operations

func (d *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	now := time.Now()
	booking.ID = uuid.NewString()
	booking.Reference = "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := d.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (d *DatabaseStore) GetBookingByReference(reference string) (*models.Booking, error) {
	var booking models.Booking
	if err := d.db.Where("reference = ?", reference).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (d *DatabaseStore) GetBookingsByPhone(phone string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := d.db.Where("phone = ?", phone).Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
