package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/easycinema/athena-backend/internal/models"
)

// Catalog supplies movie metadata. Implementations must tolerate partial
// results; the engine treats an empty result as an adapter failure.
type Catalog interface {
	Lookup(ctx context.Context, titles []string) ([]models.Movie, error)
}

// Engine drives one conversation turn at a time: it dispatches the utterance
// to the handler for the session's current step, which extracts, validates
// and commits. All adapter lookups happen before any message is built, so a
// failed lookup surfaces as one coherent error turn instead of a partial
// message sequence.
type Engine struct {
	catalog Catalog
}

// NewEngine creates a flow engine backed by the given catalog provider.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Open produces the greeting block for a freshly created session.
func (e *Engine) Open(s *Session) []Message {
	return []Message{
		Text("Welcome to Easy Cinema!"),
		Text("How may I assist you today?"),
		Text("What language would you like to use?"),
		Text("You can choose from English, Japanese, or Chinese."),
		Text("Please type your preferred language."),
	}
}

// HandleTurn processes one utterance against the session's current step.
// The session is mutated only on OutcomeAdvance.
func (e *Engine) HandleTurn(ctx context.Context, s *Session, utterance string) Turn {
	switch s.CurrentStep {
	case StepLanguage:
		return e.handleLanguage(ctx, s, utterance)
	case StepMovie:
		return e.handleMovie(ctx, s, utterance)
	case StepShowtime:
		return e.handleShowtime(s, utterance)
	case StepLocation:
		return e.handleLocation(s, utterance)
	case StepCinema:
		return e.handleCinema(s, utterance)
	case StepSeatType:
		return e.handleSeatType(s, utterance)
	case StepSeatCount:
		return e.handleSeatCount(s, utterance)
	case StepSeatNumbers:
		return e.handleSeatNumbers(s, utterance)
	case StepConfirmation:
		return e.handleConfirmation(s, utterance)
	case StepPaymentOption:
		return e.handlePaymentOption(s, utterance)
	default:
		// Terminal sessions accept no further transitions; the dispatcher
		// is expected to have discarded them already.
		return reject(ReasonUnknownChoice,
			Text("This booking is already closed. Send any message to start a new one."))
	}
}

func (e *Engine) handleLanguage(ctx context.Context, s *Session, utterance string) Turn {
	language, ok := MatchKeyword(utterance, languageVocabulary)
	if !ok {
		return revert(Text("Could you please choose from English, Japanese, or Chinese?"))
	}

	listing, err := e.movieList(ctx)
	if err != nil {
		return reject(ReasonAdapterFailure, Text("Sorry, I couldn't fetch the movie details."))
	}

	s.Commit(StepLanguage, language)

	msgs := []Message{
		Text(fmt.Sprintf("You have selected %s.", titleCase(language))),
		recommendationMessage(),
	}
	msgs = append(msgs, listing...)
	return advance(msgs...)
}

func (e *Engine) handleMovie(ctx context.Context, s *Session, utterance string) Turn {
	var title string
	if n, found := ExtractNumber(utterance); found {
		var ok bool
		title, ok = ValidateMovieChoice(n)
		if !ok {
			return reject(ReasonUnknownChoice,
				Text("Sorry, I couldn't find a movie for that choice. Please try again."))
		}
	} else if matched, found := MatchMovieName(utterance); found {
		title = matched
	} else if ContainsBookingKeyword(utterance) {
		listing, err := e.movieList(ctx)
		if err != nil {
			return reject(ReasonAdapterFailure, Text("Sorry, I couldn't fetch the movie details."))
		}
		msgs := append([]Message{Text("I see you want to book a show. Let's proceed!")}, listing...)
		return reject(ReasonUnknownChoice, msgs...)
	} else {
		return revert(Text("Please reply with the number or name of the movie you'd like to select (e.g., 1 for Zodiac, 2 for Constantine)."))
	}

	s.Commit(StepMovie, title)

	return advance(
		Text(fmt.Sprintf("You have selected %s.", title)),
		Text("Please select the desired time for the show."),
		showtimePrompt(title),
	)
}

func (e *Engine) handleShowtime(s *Session, utterance string) Turn {
	showtimes, ok := ShowtimesFor(s.Movie)
	if !ok {
		return reject(ReasonMissingPrerequisite,
			Text("I couldn't find the movie you selected. Could you confirm the movie first?"))
	}

	var selected string
	if candidate, found := ExtractTime(utterance); found {
		selected, _ = ValidateShowtime(s.Movie, candidate)
	}
	if selected == "" {
		if n, found := ExtractNumber(utterance); found {
			selected, _ = ValidateShowtimeChoice(s.Movie, n)
		}
	}
	if selected == "" {
		return reject(ReasonUnknownChoice,
			Text(fmt.Sprintf("I didn't understand your choice. Please select a valid number or showtime from the list: %s.",
				strings.Join(showtimes, ", "))))
	}

	s.Commit(StepShowtime, selected)

	return advance(
		Text(fmt.Sprintf("You have selected %s for %s.", selected, s.Movie)),
		Text("Please select the location to watch the movie."),
		Text("We have cinemas in Hong Kong, Singapore and Malaysia. Where would you like to go?"),
	)
}

func (e *Engine) handleLocation(s *Session, utterance string) Turn {
	candidate, found := ExtractLocation(utterance)
	if !found {
		return reject(ReasonUnknownLocation,
			Text("I couldn't determine the location. Please specify Hong Kong, Singapore, or Malaysia."))
	}

	location, ok := ValidateLocation(candidate)
	if !ok {
		return reject(ReasonUnknownLocation,
			Text("I couldn't determine the location. Please specify Hong Kong, Singapore, or Malaysia."))
	}

	s.Commit(StepLocation, location)

	venues, _ := VenuesFor(location)
	var list strings.Builder
	for _, v := range venues {
		fmt.Fprintf(&list, "%s: %s\n", v.Code, v.Name)
	}

	return advance(
		Text(fmt.Sprintf("You have selected %s as the location to watch the movie.", titleCase(location))),
		Text(fmt.Sprintf("Here are the cinemas available in %s:\n%sPlease reply with the letter corresponding to your choice.",
			titleCase(location), list.String())),
	)
}

func (e *Engine) handleCinema(s *Session, utterance string) Turn {
	if s.Location == "" {
		return reject(ReasonMissingPrerequisite,
			Text("I couldn't determine your location. Please confirm your location first."))
	}

	cinema, ok := ValidateCinema(s.Location, utterance)
	if !ok {
		venues, _ := VenuesFor(s.Location)
		var list strings.Builder
		for _, v := range venues {
			fmt.Fprintf(&list, "%s: %s\n", strings.ToUpper(v.Code), v.Name)
		}
		return reject(ReasonUnknownChoice,
			Text(fmt.Sprintf("Sorry, I couldn't understand that. Please reply with the letter corresponding to your choice:\n%s",
				strings.TrimRight(list.String(), "\n"))))
	}

	s.Commit(StepCinema, cinema)

	return advance(
		Text(fmt.Sprintf("You have selected %s in %s. Enjoy your time at the cinema!", cinema, titleCase(s.Location))),
		Text("What type of seats would you like to book? Here are the options:"),
		seatPricePrompt(s.Location),
	)
}

func (e *Engine) handleSeatType(s *Session, utterance string) Turn {
	if s.Location == "" {
		return reject(ReasonMissingPrerequisite,
			Text("I couldn't determine your location for pricing. Please confirm your location first."))
	}

	seatType, ok := MatchKeyword(utterance, seatTypeVocabulary)
	if !ok {
		return revert(Text("Please specify the type of seats you want (VIP, Standard, Couple)."))
	}

	price, currency, ok := PriceFor(s.Location, seatType)
	if !ok {
		return reject(ReasonUnknownChoice,
			Text("Please specify the type of seats you want (VIP, Standard, Couple)."))
	}

	s.Commit(StepSeatType, seatType)

	return advance(
		Text(fmt.Sprintf("You have selected the %s section in %s. The price per seat is %v %s.",
			DisplaySeatType(seatType), titleCase(s.Location), price, currency)),
		Text("How many seats would you like to reserve?"),
	)
}

func (e *Engine) handleSeatCount(s *Session, utterance string) Turn {
	count, found := ExtractNumber(utterance)
	if !found {
		return revert(Text("Could you please specify the number of seats?"))
	}

	if reason := ValidateSeatCount(count); reason != ReasonNone {
		return reject(reason, Text("Please specify a valid number of seats (1-10)."))
	}

	s.Commit(StepSeatCount, count)

	msgs := []Message{}
	if count == 1 {
		msgs = append(msgs,
			Text("You have selected 1 seat. Please select the seat number."),
			Image(seatingPlanURL),
			Text("Please provide the seat number for the seat you want to reserve. eg A1 or D12"))
	} else {
		msgs = append(msgs,
			Text(fmt.Sprintf("You have selected %d seats. Please select the seat numbers.", count)),
			Image(seatingPlanURL),
			Text(fmt.Sprintf("Please provide the seat numbers for the %d seats you want to reserve. eg A1, B2, C3", count)))
	}
	return advance(msgs...)
}

func (e *Engine) handleSeatNumbers(s *Session, utterance string) Turn {
	if s.SeatCount == 0 {
		return reject(ReasonMissingPrerequisite,
			Text("Please specify the number of seats first."))
	}

	codes := ExtractSeatCodes(utterance)
	if len(codes) == 0 {
		return revert(Text("I didn't catch the seat numbers. Could you please repeat?"))
	}

	if reason := ValidateSeatNumbers(codes, s.SeatCount); reason != ReasonNone {
		return reject(reason,
			Text(fmt.Sprintf("You mentioned %d seats but provided %d seat numbers. Please try again.",
				s.SeatCount, len(codes))))
	}

	s.Commit(StepSeatNumbers, codes)

	var selectedMsg Message
	if len(codes) == 1 {
		selectedMsg = Text(fmt.Sprintf("You have selected the seat: %s. Confirming your reservation now!", codes[0]))
	} else {
		selectedMsg = Text(fmt.Sprintf("You have selected the following seats: %s. Confirming your reservation now!",
			strings.Join(codes, ", ")))
	}

	return advance(
		selectedMsg,
		Text(fmt.Sprintf("Booking details:\nMovie: %s\nShowtime: %s\nCinema: %s\nSeats: %s (%s)",
			s.Movie, s.Showtime, s.Cinema, strings.Join(codes, ", "), DisplaySeatType(s.SeatType))),
		Text("Please confirm your booking by replying with 'Confirm' or 'Cancel'."),
		Text("Are you sure you want to proceed with the booking?"),
	)
}

func (e *Engine) handleConfirmation(s *Session, utterance string) Turn {
	input := strings.ToLower(utterance)

	switch {
	case strings.Contains(input, "confirm"):
		s.Commit(StepConfirmation, "confirm")
		return advance(
			Text("Your booking is confirmed!"),
			Text("Now that you have confirmed your ticket."),
			Text("Let us get started on the payment process."),
			Text("Please decide between the different options of payment."),
			Text("The payment options we provide are:"),
			Text("Master, Visa, Paypal."),
			Text("We also have debit or credit card payment options."),
		)
	case strings.Contains(input, "cancel"):
		s.Cancel()
		return advance(
			Text("Your booking has been canceled. Feel free to ask if you need anything else!"))
	default:
		return reject(ReasonUnknownChoice,
			Text("Sorry, I didn't understand that."),
			Text("Please confirm your booking by replying with 'Confirm' or 'Cancel'."))
	}
}

func (e *Engine) handlePaymentOption(s *Session, utterance string) Turn {
	option, ok := MatchPaymentOption(utterance)
	if !ok {
		// A category word is not an option by itself; list what falls under
		// it and keep asking. Offline category words (cash, offline) resolve
		// through the vocabulary directly.
		if strings.Contains(strings.ToLower(utterance), "online") {
			return reject(ReasonUnknownChoice,
				Text("These are the different options of online payment."),
				Text("Master, Visa, Paypal."),
				Text("We also have debit or credit card payment options."))
		}
		return revert(
			Text("I couldn't recognize the payment option you mentioned."),
			Text(fmt.Sprintf("Please select from these available options: %s.",
				strings.Join(PaymentOptions(), ", "))))
	}

	s.Commit(StepPaymentOption, option)

	return advance(
		Text(fmt.Sprintf("Perfect! You've selected %s as your payment option.", capitalizeFirst(option))),
		Template("payment_link", "en", capitalizeFirst(option)),
		Text("Your booking has been confirmed. Enjoy the movie!"),
	)
}

// movieList fetches catalog metadata and renders the numbered listing. The
// numbering always follows the static catalog order, so indices stay valid
// even when the provider returned partial results.
func (e *Engine) movieList(ctx context.Context) ([]Message, error) {
	movies, err := e.catalog.Lookup(ctx, MovieTitles())
	if err != nil || len(movies) == 0 {
		if err == nil {
			err = fmt.Errorf("catalog returned no results")
		}
		return nil, err
	}

	meta := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		meta[m.Title] = m
	}

	msgs := []Message{Text("The movies that are currently in cinemas are:")}
	for i, title := range movieTitles {
		if m, ok := meta[title]; ok && m.Description != "" {
			msgs = append(msgs, Text(fmt.Sprintf("%d. %s\nDescription: %s", i+1, title, m.Description)))
		} else {
			msgs = append(msgs, Text(fmt.Sprintf("%d. %s", i+1, title)))
		}
		if m, ok := meta[title]; ok && m.PosterURL != "" {
			msgs = append(msgs, Image(m.PosterURL))
		}
	}
	msgs = append(msgs,
		Template("moviechoice", "en"),
		Text("Please reply with the number of your choice (e.g., 1 for Zodiac, 2 for Constantine)."))
	return msgs, nil
}

// recommendationMessage renders the popular-picks list shown before the
// bookable catalog.
func recommendationMessage() Message {
	var b strings.Builder
	b.WriteString("Here are some popular English movies:")
	for i, title := range recommendedMovies {
		fmt.Fprintf(&b, "\n%d. %s", i+1, title)
	}
	return Text(b.String())
}

func showtimePrompt(movie string) Message {
	times, _ := ShowtimesFor(movie)
	var list strings.Builder
	for i, t := range times {
		fmt.Fprintf(&list, "%d: %s\n", i+1, t)
	}
	return Text(fmt.Sprintf("Here are the available showtimes for %s:\n%sPlease reply with the number corresponding to your preferred showtime.",
		movie, list.String()))
}

// seatPricePrompt renders the seat classes with prices scoped to the
// confirmed location, in vocabulary order.
func seatPricePrompt(location string) Message {
	var list strings.Builder
	for _, entry := range seatTypeVocabulary {
		price, currency, ok := PriceFor(location, entry.Canonical)
		if !ok {
			continue
		}
		fmt.Fprintf(&list, "- %s: %v %s\n", DisplaySeatType(entry.Canonical), price, currency)
	}
	return Text(strings.TrimRight(list.String(), "\n"))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
