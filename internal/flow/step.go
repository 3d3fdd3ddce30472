package flow

// Step identifies the slot the conversation is currently resolving
type Step string

const (
	StepLanguage      Step = "language"
	StepMovie         Step = "movie"
	StepShowtime      Step = "showtime"
	StepLocation      Step = "location"
	StepCinema        Step = "cinema"
	StepSeatType      Step = "seat_type"
	StepSeatCount     Step = "seat_count"
	StepSeatNumbers   Step = "seat_numbers"
	StepConfirmation  Step = "confirmation"
	StepPaymentOption Step = "payment_option"
	StepBooked        Step = "booked"
	StepCancelled     Step = "cancelled"
)

// stepOrder is the fixed slot-filling sequence. Confirmation sits between
// seat numbers and payment; booked is the success terminal.
var stepOrder = []Step{
	StepLanguage,
	StepMovie,
	StepShowtime,
	StepLocation,
	StepCinema,
	StepSeatType,
	StepSeatCount,
	StepSeatNumbers,
	StepConfirmation,
	StepPaymentOption,
	StepBooked,
}

// scopeDependents lists the downstream slots whose validity hangs off a
// scope-root slot. Re-committing the root clears every dependent.
var scopeDependents = map[Step][]Step{
	StepMovie:    {StepShowtime},
	StepLocation: {StepCinema, StepSeatType, StepSeatCount, StepSeatNumbers},
}

// Next returns the step that follows s in the sequence.
func (s Step) Next() Step {
	for i, step := range stepOrder {
		if step == s && i+1 < len(stepOrder) {
			return stepOrder[i+1]
		}
	}
	return s
}

// Terminal reports whether no further slot transitions are accepted.
func (s Step) Terminal() bool {
	return s == StepBooked || s == StepCancelled
}

// index returns the position of s in the flow order, or -1 for terminals
// outside the main sequence.
func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Before reports whether s comes strictly before other in the flow order.
func (s Step) Before(other Step) bool {
	si, oi := s.index(), other.index()
	return si >= 0 && oi >= 0 && si < oi
}
