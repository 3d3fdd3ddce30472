package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/easycinema/athena-backend/internal/flow"
	"github.com/easycinema/athena-backend/internal/models"
	"github.com/easycinema/athena-backend/internal/storage"
)

// ConversationService is the dispatcher around the flow engine: it owns
// session lifecycle, serializes turns per phone number, and delivers the
// engine's outgoing messages through Twilio.
type ConversationService struct {
	store         storage.Store
	engine        *flow.Engine
	twilioService *TwilioService
	sessionTTL    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewConversationService creates a new conversation service. twilioService
// may be nil in development; messages are then only logged and returned.
func NewConversationService(store storage.Store, engine *flow.Engine, twilioService *TwilioService) *ConversationService {
	return &ConversationService{
		store:         store,
		engine:        engine,
		twilioService: twilioService,
		sessionTTL:    30 * time.Minute,
		locks:         make(map[string]*sync.Mutex),
	}
}

// phoneLock returns the mutex serializing turns for one phone number.
// Turns for the same session are never handled concurrently.
func (c *ConversationService) phoneLock(phone string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[phone] = lock
	}
	return lock
}

// ProcessMessage handles one inbound utterance as an atomic turn and returns
// the ordered outgoing messages.
func (c *ConversationService) ProcessMessage(ctx context.Context, phone string, body string) ([]flow.Message, error) {
	lock := c.phoneLock(phone)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.GetSession(phone)
	if err != nil || session == nil || time.Since(session.LastActive) > c.sessionTTL {
		// First contact (or expired session): greet and wait for the
		// language choice. The opening utterance is not consumed as a slot.
		session = flow.NewSession(phone)
		if err := c.store.SaveSession(session); err != nil {
			return nil, err
		}
		messages := c.engine.Open(session)
		c.deliver(phone, messages)
		return messages, nil
	}

	turn := c.engine.HandleTurn(ctx, session, body)

	switch turn.Outcome {
	case flow.OutcomeAdvance:
		if err := c.finishTurn(session); err != nil {
			return nil, err
		}
	case flow.OutcomeReject:
		log.Printf("Turn rejected for %s at step %s: %s", phone, session.CurrentStep, turn.Reason)
	case flow.OutcomeRevert:
		log.Printf("Utterance reverted for %s at step %s", phone, session.CurrentStep)
	}

	c.deliver(phone, turn.Messages)
	return turn.Messages, nil
}

// finishTurn persists the committed state. Reaching a terminal step closes
// out the session; booked additionally records the booking.
func (c *ConversationService) finishTurn(session *flow.Session) error {
	switch session.CurrentStep {
	case flow.StepBooked:
		if _, err := c.createBooking(session); err != nil {
			return err
		}
		return c.store.DeleteSession(session.Phone)
	case flow.StepCancelled:
		return c.store.DeleteSession(session.Phone)
	default:
		return c.store.SaveSession(session)
	}
}

func (c *ConversationService) createBooking(session *flow.Session) (*models.Booking, error) {
	price, currency, _ := flow.PriceFor(session.Location, session.SeatType)

	booking := &models.Booking{
		Phone:         session.Phone,
		Movie:         session.Movie,
		Showtime:      session.Showtime,
		Location:      session.Location,
		Cinema:        session.Cinema,
		SeatType:      session.SeatType,
		SeatCount:     session.SeatCount,
		SeatNumbers:   strings.Join(session.SeatNumbers, ","),
		PaymentOption: session.PaymentOption,
		Amount:        price * float64(session.SeatCount),
		Currency:      currency,
		Status:        models.BookingStatusConfirmed,
	}

	created, err := c.store.CreateBooking(booking)
	if err != nil {
		return nil, err
	}

	log.Printf("Booking %s created for %s: %s at %s, %d x %s",
		created.Reference, created.Phone, created.Movie, created.Showtime,
		created.SeatCount, created.SeatType)
	return created, nil
}

// deliver sends each message item in order through Twilio. Delivery errors
// are logged, not propagated: the turn already committed.
func (c *ConversationService) deliver(phone string, messages []flow.Message) {
	if c.twilioService == nil {
		for _, m := range messages {
			log.Printf("Reply (not sent - Twilio not configured) to %s: %+v", phone, m)
		}
		return
	}

	for _, m := range messages {
		var err error
		switch m.Kind {
		case flow.MessageText:
			err = c.twilioService.SendWhatsAppMessage(phone, m.Text)
		case flow.MessageImage:
			err = c.twilioService.SendWhatsAppImage(phone, m.ImageURL)
		case flow.MessageTemplate:
			err = c.twilioService.SendWhatsAppTemplate(phone, m.Template.Name, m.Template.Parameters)
		}
		if err != nil {
			log.Printf("Failed to deliver message to %s: %v", phone, err)
		}
	}
}
