package flow

import "strings"

// Validators check a candidate against the session's already-confirmed
// context and produce the normalized canonical form. A rejection carries a
// Reason so the handler can pick the right reprompt.

// ValidateLocation accepts only the fixed location set (candidates arrive
// already acronym-normalized).
func ValidateLocation(candidate string) (string, bool) {
	for _, name := range locationNames {
		if candidate == name {
			return name, true
		}
	}
	return "", false
}

// ValidateMovieChoice resolves a 1-based index into the catalog order.
func ValidateMovieChoice(index int) (string, bool) {
	if index < 1 || index > len(movieTitles) {
		return "", false
	}
	return movieTitles[index-1], true
}

// MatchMovieName finds a catalog title mentioned anywhere in the utterance.
func MatchMovieName(text string) (string, bool) {
	input := strings.ToLower(text)
	for _, title := range movieTitles {
		if strings.Contains(input, strings.ToLower(title)) {
			return title, true
		}
	}
	return "", false
}

// ShowtimesFor returns the showtime list scoped to the confirmed movie.
func ShowtimesFor(movie string) ([]string, bool) {
	times, ok := showtimeTable[movie]
	return times, ok
}

// ValidateShowtime accepts a canonical "HH:MM AM/PM" candidate only if it
// appears in the confirmed movie's showtime list.
func ValidateShowtime(movie, candidate string) (string, bool) {
	times, ok := showtimeTable[movie]
	if !ok {
		return "", false
	}
	for _, t := range times {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// ValidateShowtimeChoice resolves a 1-based index into the confirmed
// movie's showtime list.
func ValidateShowtimeChoice(movie string, index int) (string, bool) {
	times, ok := showtimeTable[movie]
	if !ok || index < 1 || index > len(times) {
		return "", false
	}
	return times[index-1], true
}

// VenuesFor returns the venue list scoped to the confirmed location.
func VenuesFor(location string) ([]Venue, bool) {
	venues, ok := venueTable[location]
	return venues, ok
}

// ValidateCinema matches the utterance against the confirmed location's
// venues, by short code first, then by simplified venue name.
func ValidateCinema(location, text string) (string, bool) {
	venues, ok := venueTable[location]
	if !ok {
		return "", false
	}

	input := strings.ToLower(strings.TrimSpace(text))
	for _, v := range venues {
		if input == v.Code {
			return v.Name, true
		}
	}

	for _, v := range venues {
		if name := simplifyVenueName(v.Name); name != "" && strings.Contains(input, name) {
			return v.Name, true
		}
	}

	return "", false
}

// ValidateSeatCount enforces the inclusive [1, 10] bound. Out-of-range is a
// distinct reason from "not a number" so the user sees a different message.
func ValidateSeatCount(count int) Reason {
	if count < minSeats || count > maxSeats {
		return ReasonOutOfRange
	}
	return ReasonNone
}

// ValidateSeatNumbers requires exactly as many identifiers as the confirmed
// seat count, regardless of which format the extractor degraded to.
func ValidateSeatNumbers(codes []string, seatCount int) Reason {
	if len(codes) != seatCount {
		return ReasonCountMismatch
	}
	return ReasonNone
}

// MatchPaymentOption maps a free-form phrase to a canonical payment option.
// The extractor and validator are fused here: the flattened vocabulary is
// large and the three-tier precedence is the whole contract.
func MatchPaymentOption(text string) (string, bool) {
	return MatchKeyword(text, paymentVocabulary)
}

// PaymentOptions returns the canonical option set in display order.
func PaymentOptions() []string {
	out := make([]string, len(paymentOptions))
	copy(out, paymentOptions)
	return out
}
