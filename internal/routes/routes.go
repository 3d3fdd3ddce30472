package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/easycinema/athena-backend/internal/handlers"
	"github.com/easycinema/athena-backend/internal/services"
	"github.com/easycinema/athena-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, conversation *services.ConversationService) {
	whatsappHandler := handlers.NewWhatsAppHandler(conversation)
	bookingHandler := handlers.NewBookingHandler(store)

	// WhatsApp webhooks
	app.Post("/webhook/whatsapp", whatsappHandler.HandleWebhook)
	app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)

	// Support API
	api := app.Group("/api")
	api.Get("/bookings", bookingHandler.ListBookings)
	api.Get("/bookings/:reference", bookingHandler.GetBooking)
}
