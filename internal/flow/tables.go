package flow

// Static configuration consumed by the flow. All tables are built once at
// process start and treated as immutable read-only data shared across
// sessions.

// KeywordEntry maps one vocabulary keyword to its canonical option.
// Declaration order matters: matching strategies walk entries in order and
// the first hit wins.
type KeywordEntry struct {
	Keyword   string
	Canonical string
}

// languageVocabulary covers the supported languages and their short forms.
var languageVocabulary = []KeywordEntry{
	{"english", "english"},
	{"eng", "english"},
	{"japanese", "japanese"},
	{"jp", "japanese"},
	{"chinese", "chinese"},
	{"cn", "chinese"},
	{"chi", "chinese"},
}

// seatTypeVocabulary lists the seat classes in canonical lowercase form.
var seatTypeVocabulary = []KeywordEntry{
	{"vip", "vip"},
	{"standard", "standard"},
	{"couple", "couple"},
}

// paymentVocabulary is the flattened keyword -> canonical option table.
// Multi-word variants included; precedence follows declaration order.
var paymentVocabulary = []KeywordEntry{
	{"credit", "credit card"},
	{"credit card", "credit card"},
	{"creditcard", "credit card"},
	{"debit", "debit card"},
	{"debit card", "debit card"},
	{"debitcard", "debit card"},
	{"paypal", "paypal"},
	{"pay pal", "paypal"},
	{"pp", "paypal"},
	{"apple", "apple pay"},
	{"apple pay", "apple pay"},
	{"applepay", "apple pay"},
	{"master", "mastercard"},
	{"mastercard", "mastercard"},
	{"master card", "mastercard"},
	{"visa", "visa"},
	{"visa card", "visa"},
	{"cash", "cash"},
	{"offline", "cash"},
	{"in person", "cash"},
	{"physical", "cash"},
}

// paymentOptions is the canonical option set in display order.
var paymentOptions = []string{
	"credit card", "debit card", "paypal", "apple pay", "mastercard", "visa", "cash",
}

// bookingKeywords gate the movie listing: any of these in an otherwise
// unparseable utterance means the user wants to book.
var bookingKeywords = []string{"movie", "book", "ticket", "film", "show"}

// movieTitles is the ordered catalog selection; numeric choices index into it.
var movieTitles = []string{"Zodiac", "Constantine"}

// recommendedMovies is the popular-picks list uttered before the catalog
// listing. Not bookable; display only.
var recommendedMovies = []string{"The Shawshank Redemption", "The Dark Knight", "Inception"}

// showtimeTable maps each movie to its ordered showtimes in canonical
// "HH:MM AM/PM" form.
var showtimeTable = map[string][]string{
	"Zodiac":      {"10:00 AM", "01:00 PM", "04:00 PM", "07:00 PM"},
	"Constantine": {"11:00 AM", "02:00 PM", "05:00 PM", "08:00 PM"},
}

// locationNames is the fixed location set in canonical lowercase form.
var locationNames = []string{"hong kong", "singapore", "malaysia"}

// locationAcronyms maps 2-letter acronyms to canonical locations. Checked
// before full-name search.
var locationAcronyms = []KeywordEntry{
	{"hk", "hong kong"},
	{"sg", "singapore"},
	{"my", "malaysia"},
}

// Venue holds one cinema option under a location.
type Venue struct {
	Code string
	Name string
}

// venueTable maps location -> ordered venue list keyed by short code.
var venueTable = map[string][]Venue{
	"hong kong": {
		{"a", "Golden Harvest G Ocean (Ocean Centre)"},
		{"b", "The Sky (Olympian City)"},
		{"c", "StagE (Tuen Mun Town Plaza Phase 1)"},
	},
	"singapore": {
		{"a", "Golden Mile Tower"},
		{"b", "Orchard Cinema (Cathay Cineleisure Orchard)"},
	},
	"malaysia": {
		{"a", "GSC Mid Valley"},
		{"b", "GSC Pavilion KL"},
		{"c", "GSC Paradigm Mall"},
	},
}

// Pricing holds the per-seat-class prices and currency for one location.
// Seat class keys are canonical lowercase; display casing is applied at
// render time.
type Pricing struct {
	Prices   map[string]float64
	Currency string
}

var pricingTable = map[string]Pricing{
	"malaysia":  {Prices: map[string]float64{"vip": 50, "standard": 30, "couple": 80}, Currency: "MYR"},
	"hong kong": {Prices: map[string]float64{"vip": 150, "standard": 100, "couple": 250}, Currency: "HKD"},
	"singapore": {Prices: map[string]float64{"vip": 100, "standard": 70, "couple": 200}, Currency: "SGD"},
}

// seatTypeDisplay maps canonical seat classes to their display casing.
var seatTypeDisplay = map[string]string{
	"vip":      "VIP",
	"standard": "Standard",
	"couple":   "Couple",
}

// Seat count bounds, inclusive.
const (
	minSeats = 1
	maxSeats = 10
)

const seatingPlanURL = "https://www.edrawsoft.com/templates/images/cinema-seating-plan.png"

// MovieTitles returns the ordered catalog selection.
func MovieTitles() []string {
	out := make([]string, len(movieTitles))
	copy(out, movieTitles)
	return out
}

// PriceFor returns the per-seat price and currency for a seat class in a
// location.
func PriceFor(location, seatType string) (float64, string, bool) {
	pricing, ok := pricingTable[location]
	if !ok {
		return 0, "", false
	}
	price, ok := pricing.Prices[seatType]
	if !ok {
		return 0, "", false
	}
	return price, pricing.Currency, true
}

// DisplaySeatType converts a canonical seat class to its display casing.
func DisplaySeatType(seatType string) string {
	if display, ok := seatTypeDisplay[seatType]; ok {
		return display
	}
	return seatType
}
