package flow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easycinema/athena-backend/internal/catalog"
	"github.com/easycinema/athena-backend/internal/flow"
	"github.com/easycinema/athena-backend/internal/models"
)

func newTestEngine() *flow.Engine {
	return flow.NewEngine(catalog.NewDefaultStatic())
}

// failingCatalog simulates an unreachable metadata backend.
type failingCatalog struct{}

func (failingCatalog) Lookup(ctx context.Context, titles []string) ([]models.Movie, error) {
	return nil, fmt.Errorf("connection refused")
}

func sessionAt(t *testing.T, step flow.Step) *flow.Session {
	t.Helper()
	s := flow.NewSession("+6591234567")
	commits := []struct {
		step  flow.Step
		value interface{}
	}{
		{flow.StepLanguage, "english"},
		{flow.StepMovie, "Zodiac"},
		{flow.StepShowtime, "07:00 PM"},
		{flow.StepLocation, "singapore"},
		{flow.StepCinema, "Golden Mile Tower"},
		{flow.StepSeatType, "vip"},
		{flow.StepSeatCount, 2},
		{flow.StepSeatNumbers, []string{"A1", "B2"}},
		{flow.StepConfirmation, "confirm"},
	}
	for _, c := range commits {
		if s.CurrentStep == step {
			return s
		}
		require.NoError(t, s.Commit(c.step, c.value))
	}
	require.Equal(t, step, s.CurrentStep)
	return s
}

func textOf(messages []flow.Message) []string {
	var out []string
	for _, m := range messages {
		if m.Kind == flow.MessageText {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestOpen_GreetsAndAsksLanguage(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")

	msgs := e.Open(s)
	texts := textOf(msgs)
	require.NotEmpty(t, texts)
	assert.Equal(t, "Welcome to Easy Cinema!", texts[0])
	assert.Contains(t, texts, "You can choose from English, Japanese, or Chinese.")
	assert.Equal(t, flow.StepLanguage, s.CurrentStep)
}

func TestLanguage_CommitsAndListsMovies(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")

	turn := e.HandleTurn(context.Background(), s, "English please")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "english", s.Language)
	assert.Equal(t, flow.StepMovie, s.CurrentStep)

	texts := textOf(turn.Messages)
	assert.Contains(t, texts, "You have selected English.")
	assert.Contains(t, texts, "The movies that are currently in cinemas are:")

	// Posters ride along as image messages
	var images int
	for _, m := range turn.Messages {
		if m.Kind == flow.MessageImage {
			images++
		}
	}
	assert.Equal(t, 2, images)
}

func TestLanguage_RecommendationPrecedesCatalogListing(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")

	turn := e.HandleTurn(context.Background(), s, "english")
	require.Equal(t, flow.OutcomeAdvance, turn.Outcome)

	texts := textOf(turn.Messages)
	recommendation, catalogHeader := -1, -1
	for i, text := range texts {
		if strings.HasPrefix(text, "Here are some popular English movies:") {
			recommendation = i
		}
		if text == "The movies that are currently in cinemas are:" {
			catalogHeader = i
		}
	}
	require.NotEqual(t, -1, recommendation, "recommendation message missing")
	require.NotEqual(t, -1, catalogHeader, "catalog header missing")
	assert.Less(t, recommendation, catalogHeader)
	assert.Contains(t, texts[recommendation], "1. The Shawshank Redemption")
}

func TestLanguage_UnknownInputReverts(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")

	turn := e.HandleTurn(context.Background(), s, "francais")

	assert.Equal(t, flow.OutcomeRevert, turn.Outcome)
	assert.Equal(t, flow.StepLanguage, s.CurrentStep)
	assert.Empty(t, s.Language)
	// The revert carries the multi-message disambiguation block
	assert.GreaterOrEqual(t, len(turn.Messages), 4)
}

func TestLanguage_AdapterFailureDoesNotAdvance(t *testing.T) {
	e := flow.NewEngine(failingCatalog{})
	s := flow.NewSession("+6591234567")

	turn := e.HandleTurn(context.Background(), s, "english")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.ReasonAdapterFailure, turn.Reason)
	assert.Equal(t, flow.StepLanguage, s.CurrentStep)
	assert.Empty(t, s.Language)
	assert.Contains(t, textOf(turn.Messages), "Sorry, I couldn't fetch the movie details.")
}

func TestMovie_NumericChoiceCommitsAndPromptsShowtimes(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepMovie)

	turn := e.HandleTurn(context.Background(), s, "1")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "Zodiac", s.Movie)
	assert.Equal(t, flow.StepShowtime, s.CurrentStep)

	texts := textOf(turn.Messages)
	assert.Contains(t, texts, "You have selected Zodiac.")
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[len(texts)-1], "Here are the available showtimes for Zodiac:")
	assert.Contains(t, texts[len(texts)-1], "07:00 PM")
}

func TestMovie_NameChoiceCommits(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepMovie)

	turn := e.HandleTurn(context.Background(), s, "constantine sounds good")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "Constantine", s.Movie)
}

func TestMovie_OutOfRangeIndexRejects(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepMovie)

	turn := e.HandleTurn(context.Background(), s, "7")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.StepMovie, s.CurrentStep)
	assert.Empty(t, s.Movie)
}

func TestMovie_BookingKeywordRepromptsWithList(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepMovie)

	turn := e.HandleTurn(context.Background(), s, "I want to book a ticket")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.StepMovie, s.CurrentStep)
	texts := textOf(turn.Messages)
	assert.Contains(t, texts, "I see you want to book a show. Let's proceed!")
	assert.Contains(t, texts, "The movies that are currently in cinemas are:")
}

func TestShowtime_TimeStringsNormalizeToStoredValue(t *testing.T) {
	for _, input := range []string{"7 PM", "07:00 PM", "7 P.M."} {
		e := newTestEngine()
		s := sessionAt(t, flow.StepShowtime)

		turn := e.HandleTurn(context.Background(), s, input)

		assert.Equal(t, flow.OutcomeAdvance, turn.Outcome, "input %q", input)
		assert.Equal(t, "07:00 PM", s.Showtime, "input %q", input)
		assert.Equal(t, flow.StepLocation, s.CurrentStep)
	}
}

func TestShowtime_TimeTriedBeforeNumericIndex(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepShowtime)

	// "4 PM" must resolve as a time, not as showtime index 4
	turn := e.HandleTurn(context.Background(), s, "the 4 PM one")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "04:00 PM", s.Showtime)
}

func TestShowtime_NumericIndexFallback(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepShowtime)

	turn := e.HandleTurn(context.Background(), s, "2")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "01:00 PM", s.Showtime)
}

func TestShowtime_MissingMovieIsPrerequisiteFailure(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")
	s.CurrentStep = flow.StepShowtime // movie never confirmed

	turn := e.HandleTurn(context.Background(), s, "7 PM")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.ReasonMissingPrerequisite, turn.Reason)
	assert.Empty(t, s.Showtime)
}

func TestShowtime_StaleMovieUtteranceDoesNotDoubleApply(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepShowtime)
	require.Equal(t, "Zodiac", s.Movie)

	// Replaying the movie-step utterance after the step advanced must not
	// re-commit the movie slot.
	turn := e.HandleTurn(context.Background(), s, "zodiac")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.StepShowtime, s.CurrentStep)
	assert.Equal(t, "Zodiac", s.Movie)
	assert.Empty(t, s.Showtime)
}

func TestLocation_AcronymCommitsAndListsVenues(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepLocation)

	turn := e.HandleTurn(context.Background(), s, "sg")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "singapore", s.Location)
	assert.Equal(t, flow.StepCinema, s.CurrentStep)

	texts := textOf(turn.Messages)
	require.Len(t, texts, 2)
	assert.Equal(t, "You have selected Singapore as the location to watch the movie.", texts[0])
	assert.Contains(t, texts[1], "Golden Mile Tower")
	assert.Contains(t, texts[1], "Orchard Cinema (Cathay Cineleisure Orchard)")
}

func TestLocation_UnknownRejects(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepLocation)

	turn := e.HandleTurn(context.Background(), s, "thailand")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.ReasonUnknownLocation, turn.Reason)
	assert.Empty(t, s.Location)
}

func TestCinema_LetterChoiceCommitsAndShowsLocationScopedPrices(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepCinema)

	turn := e.HandleTurn(context.Background(), s, "a")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "Golden Mile Tower", s.Cinema)
	assert.Equal(t, flow.StepSeatType, s.CurrentStep)

	texts := textOf(turn.Messages)
	// Singapore prices, not any other location's
	assert.Contains(t, texts[len(texts)-1], "VIP: 100 SGD")
	assert.Contains(t, texts[len(texts)-1], "Standard: 70 SGD")
	assert.Contains(t, texts[len(texts)-1], "Couple: 200 SGD")
}

func TestCinema_NameWithParentheticalStripped(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepCinema)

	turn := e.HandleTurn(context.Background(), s, "orchard cinema please")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "Orchard Cinema (Cathay Cineleisure Orchard)", s.Cinema)
}

func TestCinema_MissingLocationIsPrerequisiteFailure(t *testing.T) {
	e := newTestEngine()
	s := flow.NewSession("+6591234567")
	s.CurrentStep = flow.StepCinema

	turn := e.HandleTurn(context.Background(), s, "a")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.ReasonMissingPrerequisite, turn.Reason)
	assert.Empty(t, s.Cinema)
}

func TestSeatType_CommitsWithScopedPrice(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatType)

	turn := e.HandleTurn(context.Background(), s, "VIP")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "vip", s.SeatType)
	texts := textOf(turn.Messages)
	assert.Contains(t, texts[0], "The price per seat is 100 SGD.")
	assert.Equal(t, "How many seats would you like to reserve?", texts[1])
}

func TestSeatCount_OutOfRangeRejectsWithoutMutation(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatCount)

	turn := e.HandleTurn(context.Background(), s, "15")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.ReasonOutOfRange, turn.Reason)
	assert.Equal(t, flow.StepSeatCount, s.CurrentStep)
	assert.Zero(t, s.SeatCount)
	assert.Contains(t, textOf(turn.Messages), "Please specify a valid number of seats (1-10).")
}

func TestSeatCount_NoNumberReverts(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatCount)

	turn := e.HandleTurn(context.Background(), s, "a few")

	assert.Equal(t, flow.OutcomeRevert, turn.Outcome)
	assert.Zero(t, s.SeatCount)
}

func TestSeatCount_CommitsAndSendsSeatingPlan(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatCount)

	turn := e.HandleTurn(context.Background(), s, "2")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, 2, s.SeatCount)

	var sawImage bool
	for _, m := range turn.Messages {
		if m.Kind == flow.MessageImage {
			sawImage = true
		}
	}
	assert.True(t, sawImage, "seating plan image expected")
}

func TestSeatNumbers_CountMismatchRejectsRegardlessOfFormat(t *testing.T) {
	for _, input := range []string{"A1", "A1 B2 C3", "4", "1 2 3"} {
		e := newTestEngine()
		s := sessionAt(t, flow.StepSeatNumbers)
		require.Equal(t, 2, s.SeatCount)

		turn := e.HandleTurn(context.Background(), s, input)

		assert.Equal(t, flow.OutcomeReject, turn.Outcome, "input %q", input)
		assert.Equal(t, flow.ReasonCountMismatch, turn.Reason, "input %q", input)
		assert.Empty(t, s.SeatNumbers)
	}
}

func TestSeatNumbers_CommitsAndAsksConfirmation(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatNumbers)

	turn := e.HandleTurn(context.Background(), s, "A1, B2")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, []string{"A1", "B2"}, s.SeatNumbers)
	assert.Equal(t, flow.StepConfirmation, s.CurrentStep)

	texts := textOf(turn.Messages)
	assert.Contains(t, texts[0], "A1, B2")
	assert.Contains(t, texts, "Please confirm your booking by replying with 'Confirm' or 'Cancel'.")
}

func TestSeatNumbers_BareDigitFallbackAccepted(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepSeatNumbers)

	turn := e.HandleTurn(context.Background(), s, "4 and 5")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, []string{"4", "5"}, s.SeatNumbers)
}

func TestConfirmation_ConfirmAdvancesToPayment(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepConfirmation)

	turn := e.HandleTurn(context.Background(), s, "Confirm")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, flow.StepPaymentOption, s.CurrentStep)
	assert.Contains(t, textOf(turn.Messages), "Your booking is confirmed!")
}

func TestConfirmation_CancelTerminates(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepConfirmation)

	turn := e.HandleTurn(context.Background(), s, "cancel it")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, flow.StepCancelled, s.CurrentStep)
	assert.True(t, s.CurrentStep.Terminal())
}

func TestConfirmation_UnclearRejects(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepConfirmation)

	turn := e.HandleTurn(context.Background(), s, "maybe")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.StepConfirmation, s.CurrentStep)
}

func TestPaymentOption_CashCommitsTowardBooked(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepPaymentOption)

	turn := e.HandleTurn(context.Background(), s, "cash")

	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "cash", s.PaymentOption)
	assert.Equal(t, flow.StepBooked, s.CurrentStep)
	assert.Contains(t, textOf(turn.Messages), "Your booking has been confirmed. Enjoy the movie!")
}

func TestPaymentOption_OnlineCategoryListsOnlineOptions(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepPaymentOption)

	turn := e.HandleTurn(context.Background(), s, "online")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Empty(t, s.PaymentOption)
	assert.Equal(t, flow.StepPaymentOption, s.CurrentStep)

	texts := textOf(turn.Messages)
	assert.Contains(t, texts, "These are the different options of online payment.")
	assert.Contains(t, texts, "Master, Visa, Paypal.")

	// A concrete option still commits afterwards
	turn = e.HandleTurn(context.Background(), s, "visa")
	assert.Equal(t, flow.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, "visa", s.PaymentOption)
}

func TestPaymentOption_UnknownReverts(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepPaymentOption)

	turn := e.HandleTurn(context.Background(), s, "gold bars")

	assert.Equal(t, flow.OutcomeRevert, turn.Outcome)
	assert.Empty(t, s.PaymentOption)
	assert.Equal(t, flow.StepPaymentOption, s.CurrentStep)
}

func TestTerminalSession_RejectsFurtherTurns(t *testing.T) {
	e := newTestEngine()
	s := sessionAt(t, flow.StepConfirmation)
	require.NoError(t, s.Cancel())

	turn := e.HandleTurn(context.Background(), s, "english")

	assert.Equal(t, flow.OutcomeReject, turn.Outcome)
	assert.Equal(t, flow.StepCancelled, s.CurrentStep)
	assert.NotEmpty(t, turn.Messages)
}
