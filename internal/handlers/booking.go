package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/easycinema/athena-backend/internal/storage"
)

// BookingHandler serves booking lookups for support tooling
type BookingHandler struct {
	store storage.Store
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(store storage.Store) *BookingHandler {
	return &BookingHandler{store: store}
}

// GetBooking returns a booking by its customer-facing reference
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	reference := c.Params("reference")

	booking, err := h.store.GetBookingByReference(reference)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	return c.JSON(booking)
}

// ListBookings returns all bookings for a phone number
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone query parameter is required",
		})
	}

	bookings, err := h.store.GetBookingsByPhone(phone)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(bookings),
		"bookings": bookings,
	})
}
