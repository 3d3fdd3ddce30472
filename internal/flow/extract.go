package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extractors parse raw utterance text into typed candidates. They are
// deterministic and side-effect free; "no candidate" is the zero return,
// never an error. Whether a candidate is actually valid is the validator's
// concern.

var (
	numberPattern   = regexp.MustCompile(`\b\d+\b`)
	timePattern     = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s?(A\.?M\.?|P\.?M\.?)\b`)
	seatCodePattern = regexp.MustCompile(`\b[A-Za-z]\d{1,3}\b`)
)

// ExtractNumber finds the first standalone integer token.
func ExtractNumber(text string) (int, bool) {
	token := numberPattern.FindString(text)
	if token == "" {
		return 0, false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractTime finds an H[:MM] AM/PM shaped token, tolerating period
// separated variants like "7 P.M.", and returns the canonical
// "HH:MM AM/PM" form. Callers must try this before numeric extraction on
// the same utterance: a time string contains digits that would otherwise
// be misread as an index.
func ExtractTime(text string) (string, bool) {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return "", false
	}

	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return "", false
		}
	}

	meridiem := strings.ToUpper(strings.ReplaceAll(m[3], ".", ""))
	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem), true
}

// ExtractSeatCodes finds all <Letter><Digits> tokens (e.g. "A1"). When none
// are present it degrades to bare digit tokens as seat identifiers; the
// validator decides whether the count matches.
func ExtractSeatCodes(text string) []string {
	codes := seatCodePattern.FindAllString(text, -1)
	for i, code := range codes {
		codes[i] = strings.ToUpper(code)
	}
	if len(codes) > 0 {
		return codes
	}
	return numberPattern.FindAllString(text, -1)
}

// MatchKeyword resolves free-form text against a vocabulary using the fixed
// three-tier precedence: exact full-input match, then per-word match, then
// substring partial match in either direction (keyword inside the input, or
// an input word inside the keyword, so "payp" still resolves to paypal).
// Each tier walks entries in declaration order and short-circuits on the
// first hit.
func MatchKeyword(text string, vocab []KeywordEntry) (string, bool) {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return "", false
	}

	for _, entry := range vocab {
		if input == entry.Keyword {
			return entry.Canonical, true
		}
	}

	words := strings.Fields(input)
	for _, entry := range vocab {
		for _, word := range words {
			if word == entry.Keyword {
				return entry.Canonical, true
			}
		}
	}

	for _, entry := range vocab {
		if strings.Contains(input, entry.Keyword) {
			return entry.Canonical, true
		}
		for _, word := range words {
			if strings.Contains(entry.Keyword, word) {
				return entry.Canonical, true
			}
		}
	}

	return "", false
}

// ExtractLocation checks the 2-letter acronym table before falling back to
// full-name substring search. Returns the canonical lowercase location.
func ExtractLocation(text string) (string, bool) {
	input := strings.ToLower(text)

	for _, entry := range locationAcronyms {
		if strings.Contains(input, entry.Keyword) {
			return entry.Canonical, true
		}
	}

	for _, name := range locationNames {
		if strings.Contains(input, name) {
			return name, true
		}
	}

	return "", false
}

// ContainsBookingKeyword reports whether the utterance mentions any of the
// booking vocabulary (movie, book, ticket, film, show).
func ContainsBookingKeyword(text string) bool {
	input := strings.ToLower(text)
	for _, kw := range bookingKeywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

var parentheticalPattern = regexp.MustCompile(`\s*\(.*?\)`)

// simplifyVenueName strips parenthetical suffixes and lowercases, so
// "Orchard Cinema (Cathay Cineleisure Orchard)" matches "orchard cinema".
func simplifyVenueName(name string) string {
	return strings.ToLower(strings.TrimSpace(parentheticalPattern.ReplaceAllString(name, "")))
}
