package flow

import (
	"fmt"
	"time"
)

// Session is the unit of conversation state, one per ongoing transaction.
// It is mutated only through Commit and Cancel; handlers never write slots
// directly.
type Session struct {
	Phone       string    `json:"phone"`
	CurrentStep Step      `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	LastActive  time.Time `json:"last_active"`

	// Confirmed slot values, populated in flow order
	Language      string   `json:"language,omitempty"`
	Movie         string   `json:"movie,omitempty"`
	Showtime      string   `json:"showtime,omitempty"`
	Location      string   `json:"location,omitempty"`
	Cinema        string   `json:"cinema,omitempty"`
	SeatType      string   `json:"seat_type,omitempty"`
	SeatCount     int      `json:"seat_count,omitempty"`
	SeatNumbers   []string `json:"seat_numbers,omitempty"`
	PaymentOption string   `json:"payment_option,omitempty"`
}

// NewSession creates a fresh session positioned at the first step.
func NewSession(phone string) *Session {
	now := time.Now()
	return &Session{
		Phone:       phone,
		CurrentStep: StepLanguage,
		CreatedAt:   now,
		LastActive:  now,
	}
}

// Commit records a validated slot value and advances the conversation to the
// step after it. Committing a scope-root slot (movie, location) clears every
// downstream slot that depended on the old value.
func (s *Session) Commit(step Step, value interface{}) error {
	if s.CurrentStep.Terminal() {
		return fmt.Errorf("session is terminal (%s), no further transitions", s.CurrentStep)
	}

	switch step {
	case StepLanguage:
		s.Language = value.(string)
	case StepMovie:
		s.Movie = value.(string)
	case StepShowtime:
		s.Showtime = value.(string)
	case StepLocation:
		s.Location = value.(string)
	case StepCinema:
		s.Cinema = value.(string)
	case StepSeatType:
		s.SeatType = value.(string)
	case StepSeatCount:
		s.SeatCount = value.(int)
	case StepSeatNumbers:
		s.SeatNumbers = value.([]string)
	case StepConfirmation:
		// The confirmation step advances without storing a slot.
	case StepPaymentOption:
		s.PaymentOption = value.(string)
	default:
		return fmt.Errorf("step %s does not accept a slot commit", step)
	}

	for _, dep := range scopeDependents[step] {
		s.clearSlot(dep)
	}

	s.CurrentStep = step.Next()
	s.LastActive = time.Now()
	return nil
}

// Cancel moves the session to the cancelled terminal. Only legal from the
// confirmation step.
func (s *Session) Cancel() error {
	if s.CurrentStep != StepConfirmation {
		return fmt.Errorf("cancel is only reachable from confirmation, current step is %s", s.CurrentStep)
	}
	s.CurrentStep = StepCancelled
	s.LastActive = time.Now()
	return nil
}

// Slot returns the confirmed value for a step and whether it has been set.
func (s *Session) Slot(step Step) (interface{}, bool) {
	switch step {
	case StepLanguage:
		return s.Language, s.Language != ""
	case StepMovie:
		return s.Movie, s.Movie != ""
	case StepShowtime:
		return s.Showtime, s.Showtime != ""
	case StepLocation:
		return s.Location, s.Location != ""
	case StepCinema:
		return s.Cinema, s.Cinema != ""
	case StepSeatType:
		return s.SeatType, s.SeatType != ""
	case StepSeatCount:
		return s.SeatCount, s.SeatCount != 0
	case StepSeatNumbers:
		return s.SeatNumbers, len(s.SeatNumbers) != 0
	case StepPaymentOption:
		return s.PaymentOption, s.PaymentOption != ""
	}
	return nil, false
}

func (s *Session) clearSlot(step Step) {
	switch step {
	case StepShowtime:
		s.Showtime = ""
	case StepCinema:
		s.Cinema = ""
	case StepSeatType:
		s.SeatType = ""
	case StepSeatCount:
		s.SeatCount = 0
	case StepSeatNumbers:
		s.SeatNumbers = nil
	}
}
