package hotels

import (
	"fmt"

	"github.com/gilby125/hotel-availability/validation"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Defaults are substituted for missing or unknown silent-correction fields.
type Defaults struct {
	LanguageCode string
	OptionsQuota int
	Currency     string
	Nationality  string
	Market       string
}

// Limits bound the numeric and occupancy rules.
type Limits struct {
	MaxOptionsQuota    int
	MaxRooms           int
	MaxGuestsPerRoom   int
	MaxChildrenPerRoom int
	MaxDestinations    int
	MinLeadDays        int
	MinNights          int
}

// Rules is the full configuration of the request validator.
type Rules struct {
	Defaults      Defaults
	Limits        Limits
	LanguageCodes validation.Set
	Currencies    validation.Set
	Nationalities validation.Set
	Markets       validation.Set
}

// DefaultRules returns the standard availability rules.
func DefaultRules() Rules {
	return Rules{
		Defaults: Defaults{
			LanguageCode: "en",
			OptionsQuota: 20,
			Currency:     "EUR",
			Nationality:  "US",
			Market:       "ES",
		},
		Limits: Limits{
			MaxOptionsQuota:    50,
			MaxRooms:           5,
			MaxGuestsPerRoom:   4,
			MaxChildrenPerRoom: 2,
			MaxDestinations:    5,
			MinLeadDays:        2,
			MinNights:          3,
		},
		LanguageCodes: validation.NewSet("en", "fr", "de", "es"),
		Currencies:    validation.NewSet("EUR", "USD", "GBP"),
		Nationalities: validation.NewSet("US", "GB", "CA"),
		Markets:       validation.NewSet("US", "GB", "CA", "ES"),
	}
}

// Validate checks that every set is populated with well-formed codes and that
// each default is itself allowed.
func (r Rules) Validate() error {
	for _, code := range r.LanguageCodes.Values() {
		if _, err := language.Parse(code); err != nil {
			return &ValidationError{Field: "LanguageCodes", Message: fmt.Sprintf("contains invalid language %q", code)}
		}
	}
	for _, code := range r.Currencies.Values() {
		if _, err := currency.ParseISO(code); err != nil {
			return &ValidationError{Field: "Currencies", Message: fmt.Sprintf("contains invalid currency %q", code)}
		}
	}
	for field, set := range map[string]validation.Set{"Nationalities": r.Nationalities, "Markets": r.Markets} {
		for _, code := range set.Values() {
			if _, err := language.ParseRegion(code); err != nil {
				return &ValidationError{Field: field, Message: fmt.Sprintf("contains invalid region %q", code)}
			}
		}
	}

	sets := []struct {
		field   string
		allowed validation.Set
		def     string
	}{
		{"LanguageCode", r.LanguageCodes, r.Defaults.LanguageCode},
		{"Currency", r.Currencies, r.Defaults.Currency},
		{"Nationality", r.Nationalities, r.Defaults.Nationality},
		{"Market", r.Markets, r.Defaults.Market},
	}
	for _, s := range sets {
		if len(s.allowed) == 0 {
			return &ValidationError{Field: s.field, Message: "has no allowed values"}
		}
		if !s.allowed.Has(s.def) {
			return &ValidationError{Field: "Defaults." + s.field, Message: fmt.Sprintf("%q is not an allowed value", s.def)}
		}
	}

	if r.Defaults.OptionsQuota < 0 || r.Defaults.OptionsQuota > r.Limits.MaxOptionsQuota {
		return &ValidationError{Field: "Defaults.OptionsQuota", Message: "must be between 0 and MaxOptionsQuota"}
	}
	limits := []struct {
		field string
		value int
	}{
		{"MaxOptionsQuota", r.Limits.MaxOptionsQuota},
		{"MaxRooms", r.Limits.MaxRooms},
		{"MaxGuestsPerRoom", r.Limits.MaxGuestsPerRoom},
		{"MaxDestinations", r.Limits.MaxDestinations},
	}
	for _, l := range limits {
		if l.value < 1 {
			return &ValidationError{Field: "Limits." + l.field, Message: "must be at least 1"}
		}
	}
	if r.Limits.MaxChildrenPerRoom < 0 || r.Limits.MinLeadDays < 0 || r.Limits.MinNights < 0 {
		return &ValidationError{Field: "Limits", Message: "cannot be negative"}
	}
	return nil
}

func (r Rules) clone() Rules {
	r.LanguageCodes = r.LanguageCodes.Clone()
	r.Currencies = r.Currencies.Clone()
	r.Nationalities = r.Nationalities.Clone()
	r.Markets = r.Markets.Clone()
	return r
}
