package hotels

import (
	"github.com/gilby125/hotel-availability/validation"
)

// ServiceType is the constant service name carried by every search request.
const ServiceType = "HotelSearchRequest"

// SearchType selects between single and multi-destination searches.
type SearchType string

const (
	SearchSingle   SearchType = "Single"
	SearchMultiple SearchType = "Multiple"
)

// Guest types accepted on Pax elements.
const (
	GuestAdult = "Adult"
	GuestChild = "Child"
)

// Credential is one Configuration/Parameters/Parameter entry.
type Credential struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId"`
}

// Room is the occupancy of one Paxes block.
type Room struct {
	Adults    int   `json:"adults"`
	Children  int   `json:"children"`
	ChildAges []int `json:"childAges"`
}

// SearchRequest is the canonical, validated form of an availability request.
type SearchRequest struct {
	ServiceType         string           `json:"serviceType"`
	TimeoutMilliseconds int              `json:"timeoutMilliseconds"`
	LanguageCode        string           `json:"languageCode"`
	OptionsQuota        int              `json:"optionsQuota"`
	Credentials         []Credential     `json:"credentials"`
	SearchType          SearchType       `json:"searchType,omitempty"`
	Destinations        []string         `json:"destinations"`
	StartDate           *validation.Date `json:"startDate,omitempty"`
	EndDate             *validation.Date `json:"endDate,omitempty"`
	Currency            string           `json:"currency"`
	Nationality         string           `json:"nationality"`
	Market              string           `json:"market"`
	Rooms               []Room           `json:"rooms"`
}

// Amount is a decimal value as quoted by a supplier. It is kept as text so
// that pricing can parse it exactly.
type Amount string

// Price is the price block of a hotel offer. The selling fields are filled in
// by the pricing step and are nil until then.
type Price struct {
	Net          Amount `json:"net"`
	Currency     string `json:"currency"`
	Markup       Amount `json:"markup"`
	ExchangeRate Amount `json:"exchangeRate,omitempty"`

	SellingPrice        *Amount `json:"sellingPrice,omitempty"`
	SellingCurrency     string  `json:"sellingCurrency,omitempty"`
	ExchangeRateApplied *Amount `json:"exchangeRateApplied,omitempty"`
}

// Hotel is one offer returned by the search backend.
type Hotel struct {
	ID                string `json:"id"`
	HotelCodeSupplier string `json:"hotelCodeSupplier"`
	Market            string `json:"market"`
	City              string `json:"city,omitempty"`
	Price             *Price `json:"price,omitempty"`
}

// SearchData is the payload of a successful search.
type SearchData struct {
	SessionID string  `json:"session_id"`
	Hotels    []Hotel `json:"hotels"`
}

// SearchResponse is the search backend envelope, and after pricing the final
// availability response.
type SearchResponse struct {
	Status  int         `json:"status"`
	Data    *SearchData `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ValidationError reports an invalid rules configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}
