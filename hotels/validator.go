package hotels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/gilby125/hotel-availability/validation"
	"github.com/gilby125/hotel-availability/xmlmap"
)

// ErrSchemaRejected is returned when the optional schema check fails.
var ErrSchemaRejected = errors.New("XML validation failed")

// Element paths of the availability request.
const (
	pathTimeout      = ".//timeoutMilliseconds"
	pathLanguageCode = ".//languageCode"
	pathOptionsQuota = ".//optionsQuota"
	pathParameters   = ".//Configuration/Parameters/Parameter"
	pathSearchType   = ".//SearchType"
	pathDestinations = ".//AvailDestinations/Destination"
	pathStartDate    = ".//StartDate"
	pathEndDate      = ".//EndDate"
	pathCurrency     = ".//Currency"
	pathNationality  = ".//Nationality"
	pathMarket       = ".//Market"
	pathRooms        = ".//Paxes"
	pathGuests       = ".//Pax"
)

// SchemaValidator checks a parsed document against an external schema.
type SchemaValidator interface {
	Validate(root *etree.Element) error
}

// SchemaFunc adapts a function to SchemaValidator.
type SchemaFunc func(root *etree.Element) error

func (f SchemaFunc) Validate(root *etree.Element) error { return f(root) }

// Option configures a RequestValidator.
type Option func(*RequestValidator)

// WithSchema runs s on every document before any rule.
func WithSchema(s SchemaValidator) Option {
	return func(v *RequestValidator) { v.schema = s }
}

// WithClock replaces time.Now for the date rules.
func WithClock(now func() time.Time) Option {
	return func(v *RequestValidator) { v.now = now }
}

// RequestValidator turns availability XML into a SearchRequest. It holds
// only immutable configuration and is safe for concurrent use.
type RequestValidator struct {
	rules  Rules
	schema SchemaValidator
	now    func() time.Time
}

// NewRequestValidator checks rules and returns a validator using a private
// copy of them.
func NewRequestValidator(rules Rules, opts ...Option) (*RequestValidator, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	v := &RequestValidator{
		rules: rules.clone(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Rules returns a copy of the validator configuration.
func (v *RequestValidator) Rules() Rules { return v.rules.clone() }

// Validate parses data and applies every rule. Malformed XML and schema
// rejection are returned as errors; rule violations are accumulated into a
// failed Result.
func (v *RequestValidator) Validate(data []byte) (validation.Result[SearchRequest], error) {
	root, err := xmlmap.Parse(data)
	if err != nil {
		return validation.Result[SearchRequest]{}, err
	}
	if v.schema != nil {
		if err := v.schema.Validate(root); err != nil {
			return validation.Result[SearchRequest]{}, fmt.Errorf("%w:\n%v", ErrSchemaRejected, err)
		}
	}
	return v.ValidateElement(root), nil
}

// ValidateString is Validate for text input.
func (v *RequestValidator) ValidateString(text string) (validation.Result[SearchRequest], error) {
	return v.Validate([]byte(text))
}

// ValidateElement applies the rules to an already parsed document.
func (v *RequestValidator) ValidateElement(root *etree.Element) validation.Result[SearchRequest] {
	req, errs := v.Check(root)
	if len(errs) > 0 {
		return validation.Failure[SearchRequest](errs...)
	}
	return validation.Success(req)
}

// Check builds the request and returns it together with every rule
// violation. Fields are recorded even when a rule on them failed.
func (v *RequestValidator) Check(root *etree.Element) (SearchRequest, []string) {
	var errs validation.Errors
	r := v.rules

	req := SearchRequest{
		ServiceType:         ServiceType,
		TimeoutMilliseconds: validation.BoundedInt(root, pathTimeout, 0, validation.NoLimit),
		LanguageCode:        validation.Field(root, pathLanguageCode, r.LanguageCodes, r.Defaults.LanguageCode),
		OptionsQuota:        validation.BoundedInt(root, pathOptionsQuota, r.Defaults.OptionsQuota, r.Limits.MaxOptionsQuota),
	}

	req.Credentials = credentials(root, &errs)
	req.SearchType, req.Destinations = v.destinations(root, &errs)

	window := validation.DateWindow{MinLeadDays: r.Limits.MinLeadDays, MinNights: r.Limits.MinNights}
	if start, end, ok := validation.DateRange(root, pathStartDate, pathEndDate, v.now(), window, &errs); ok {
		req.StartDate, req.EndDate = &start, &end
	}

	req.Currency = validation.Field(root, pathCurrency, r.Currencies, r.Defaults.Currency)
	req.Nationality = validation.Field(root, pathNationality, r.Nationalities, r.Defaults.Nationality)
	req.Market = validation.Field(root, pathMarket, r.Markets, r.Defaults.Market)
	req.Rooms = v.rooms(root, &errs)

	return req, errs.List()
}

func credentials(root *etree.Element, errs *validation.Errors) []Credential {
	params := root.FindElements(pathParameters)
	out := make([]Credential, 0, len(params))
	if len(params) == 0 {
		errs.Add("Missing required parameters in Configuration.")
		return out
	}

	for _, p := range params {
		c := Credential{
			Username:  p.SelectAttrValue("username", ""),
			Password:  p.SelectAttrValue("password", ""),
			CompanyID: p.SelectAttrValue("CompanyID", ""),
		}

		var missing []string
		if c.Password == "" {
			missing = append(missing, "password")
		}
		if c.Username == "" {
			missing = append(missing, "username")
		}
		if c.CompanyID == "" {
			missing = append(missing, "CompanyID")
		}
		if !validation.IsDigits(c.CompanyID) {
			missing = append(missing, "CompanyID (invalid format)")
		}
		if len(missing) > 0 {
			errs.Add("Missing or invalid required parameters: " + strings.Join(missing, ", "))
		}
		out = append(out, c)
	}
	return out
}

func (v *RequestValidator) destinations(root *etree.Element, errs *validation.Errors) (SearchType, []string) {
	dests := validation.TextList(root, pathDestinations)
	text, _ := validation.FindText(root, pathSearchType)

	switch st := SearchType(text); st {
	case SearchSingle:
		if len(dests) != 1 {
			errs.Add("Single SearchType must have exactly one destination.")
		}
		return st, dests
	case SearchMultiple:
		if len(dests) > v.rules.Limits.MaxDestinations {
			errs.Addf("Multiple SearchType can have at most %d destinations.", v.rules.Limits.MaxDestinations)
		}
		return st, dests
	default:
		errs.Add("Invalid SearchType. Must be 'Single' or 'Multiple'.")
		return "", dests
	}
}

func (v *RequestValidator) rooms(root *etree.Element, errs *validation.Errors) []Room {
	limits := v.rules.Limits
	blocks := root.FindElements(pathRooms)
	out := make([]Room, 0, len(blocks))
	if len(blocks) > limits.MaxRooms {
		errs.Addf("Maximum allowed rooms: %d.", limits.MaxRooms)
		return out
	}

	for _, block := range blocks {
		guests := block.FindElements(pathGuests)
		if len(guests) > limits.MaxGuestsPerRoom {
			errs.Addf("Maximum allowed guests per room: %d.", limits.MaxGuestsPerRoom)
			continue
		}

		room := Room{ChildAges: []int{}}
		for _, g := range guests {
			switch g.SelectAttrValue("type", "") {
			case GuestAdult:
				room.Adults++
			case GuestChild:
				room.Children++
				room.ChildAges = append(room.ChildAges, age(g))
			}
		}
		if room.Children > 0 && room.Adults == 0 {
			errs.Add("Each room must have at least one Adult if Children are present.")
		}
		if room.Children > limits.MaxChildrenPerRoom {
			errs.Addf("Maximum allowed children per room: %d.", limits.MaxChildrenPerRoom)
		}
		out = append(out, room)
	}
	return out
}

// age reads a guest age; absent or non-numeric values count as 0.
func age(guest *etree.Element) int {
	n, err := strconv.Atoi(strings.TrimSpace(guest.SelectAttrValue("age", "0")))
	if err != nil {
		return 0
	}
	return n
}
