package hotels

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/gilby125/hotel-availability/validation"
	"github.com/gilby125/hotel-availability/xmlmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

type requestFixture struct {
	languageCode string
	optionsQuota string
	params       []string
	searchType   string
	destinations []string
	start, end   string
	currency     string
	rooms        []string
}

func validFixture() requestFixture {
	return requestFixture{
		languageCode: "en",
		optionsQuota: "20",
		params:       []string{`<Parameter password="XXXXXXXXXX" username="YYYYYYYYY" CompanyID="123456"/>`},
		searchType:   "Single",
		destinations: []string{"MCO"},
		start:        "25/10/2026",
		end:          "29/10/2026",
		currency:     "USD",
		rooms: []string{
			`<Pax type="Adult" age="35"/><Pax type="Child" age="7"/>`,
			`<Pax type="Adult" age="40"/>`,
		},
	}
}

func (f requestFixture) xml() string {
	var b strings.Builder
	b.WriteString(`<AvailRQ><timeoutMilliseconds>25000</timeoutMilliseconds>`)
	b.WriteString(`<source><languageCode>` + f.languageCode + `</languageCode></source>`)
	b.WriteString(`<optionsQuota>` + f.optionsQuota + `</optionsQuota>`)
	b.WriteString(`<Configuration><Parameters>` + strings.Join(f.params, "") + `</Parameters></Configuration>`)
	b.WriteString(`<SearchType>` + f.searchType + `</SearchType><AvailDestinations>`)
	for _, d := range f.destinations {
		b.WriteString(`<Destination>` + d + `</Destination>`)
	}
	b.WriteString(`</AvailDestinations>`)
	b.WriteString(`<StartDate>` + f.start + `</StartDate><EndDate>` + f.end + `</EndDate>`)
	b.WriteString(`<Currency>` + f.currency + `</Currency><Nationality>US</Nationality><Market>ES</Market>`)
	for _, r := range f.rooms {
		b.WriteString(`<Paxes>` + r + `</Paxes>`)
	}
	b.WriteString(`</AvailRQ>`)
	return b.String()
}

func newTestValidator(t *testing.T, opts ...Option) *RequestValidator {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	v, err := NewRequestValidator(DefaultRules(), opts...)
	require.NoError(t, err)
	return v
}

func check(t *testing.T, v *RequestValidator, f requestFixture) (SearchRequest, []string) {
	t.Helper()
	root, err := xmlmap.ParseString(f.xml())
	require.NoError(t, err)
	return v.Check(root)
}

func TestValidateSuccess(t *testing.T) {
	v := newTestValidator(t)

	result, err := v.ValidateString(validFixture().xml())
	require.NoError(t, err)
	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	req := result.Data
	start, end := validation.NewDate(2026, time.October, 25), validation.NewDate(2026, time.October, 29)
	assert.Equal(t, SearchRequest{
		ServiceType:         ServiceType,
		TimeoutMilliseconds: 25000,
		LanguageCode:        "en",
		OptionsQuota:        20,
		Credentials:         []Credential{{Username: "YYYYYYYYY", Password: "XXXXXXXXXX", CompanyID: "123456"}},
		SearchType:          SearchSingle,
		Destinations:        []string{"MCO"},
		StartDate:           &start,
		EndDate:             &end,
		Currency:            "USD",
		Nationality:         "US",
		Market:              "ES",
		Rooms: []Room{
			{Adults: 1, Children: 1, ChildAges: []int{7}},
			{Adults: 1, Children: 0, ChildAges: []int{}},
		},
	}, req)
}

func TestValidateSuccessJSON(t *testing.T) {
	v := newTestValidator(t)
	result, err := v.ValidateString(validFixture().xml())
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)

	var envelope struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out, &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "HotelSearchRequest", envelope.Data["serviceType"])
	assert.Equal(t, "25/10/2026", envelope.Data["startDate"])
	assert.Equal(t, "29/10/2026", envelope.Data["endDate"])
}

func TestSilentCorrection(t *testing.T) {
	v := newTestValidator(t)
	f := validFixture()
	f.languageCode = "zz"
	f.currency = "JPY"
	f.optionsQuota = "plenty"

	req, errs := check(t, v, f)
	assert.Empty(t, errs)
	assert.Equal(t, "en", req.LanguageCode)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, 20, req.OptionsQuota)
}

func TestOptionsQuotaCeiling(t *testing.T) {
	v := newTestValidator(t)
	f := validFixture()
	f.optionsQuota = "80"

	req, errs := check(t, v, f)
	assert.Empty(t, errs)
	assert.Equal(t, 50, req.OptionsQuota)
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name    string
		params  []string
		wantErr []string
		wantLen int
	}{
		{
			name:    "every field missing",
			params:  []string{`<Parameter/>`},
			wantErr: []string{"Missing or invalid required parameters: password, username, CompanyID, CompanyID (invalid format)"},
			wantLen: 1,
		},
		{
			name:    "non numeric company",
			params:  []string{`<Parameter password="p" username="u" CompanyID="ACME"/>`},
			wantErr: []string{"Missing or invalid required parameters: CompanyID (invalid format)"},
			wantLen: 1,
		},
		{
			name:    "one error per bad entry",
			params:  []string{`<Parameter password="p" CompanyID="1"/>`, `<Parameter password="p" username="u" CompanyID="2"/>`, `<Parameter username="u" CompanyID="3"/>`},
			wantErr: []string{"Missing or invalid required parameters: username", "Missing or invalid required parameters: password"},
			wantLen: 3,
		},
		{
			name:    "no entries",
			params:  nil,
			wantErr: []string{"Missing required parameters in Configuration."},
			wantLen: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			f := validFixture()
			f.params = tt.params

			req, errs := check(t, v, f)
			assert.Equal(t, tt.wantErr, errs)
			assert.NotNil(t, req.Credentials)
			assert.Len(t, req.Credentials, tt.wantLen)
		})
	}
}

func TestSearchTypeRules(t *testing.T) {
	tests := []struct {
		name         string
		searchType   string
		destinations []string
		wantErr      []string
		wantType     SearchType
	}{
		{"single with two destinations", "Single", []string{"MCO", "NYC"}, []string{"Single SearchType must have exactly one destination."}, SearchSingle},
		{"single with none", "Single", nil, []string{"Single SearchType must have exactly one destination."}, SearchSingle},
		{"multiple within limit", "Multiple", []string{"A", "B", "C", "D", "E"}, nil, SearchMultiple},
		{"multiple over limit", "Multiple", []string{"A", "B", "C", "D", "E", "F"}, []string{"Multiple SearchType can have at most 5 destinations."}, SearchMultiple},
		{"unknown type", "Roundtrip", []string{"A", "B"}, []string{"Invalid SearchType. Must be 'Single' or 'Multiple'."}, ""},
		{"case sensitive", "single", []string{"A"}, []string{"Invalid SearchType. Must be 'Single' or 'Multiple'."}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			f := validFixture()
			f.searchType = tt.searchType
			f.destinations = tt.destinations

			req, errs := check(t, v, f)
			if tt.wantErr == nil {
				assert.Empty(t, errs)
			} else {
				assert.Equal(t, tt.wantErr, errs)
			}
			assert.Equal(t, tt.wantType, req.SearchType)
			assert.Len(t, req.Destinations, len(tt.destinations), "destinations are always recorded")
		})
	}
}

func TestDateRules(t *testing.T) {
	v := newTestValidator(t)

	f := validFixture()
	f.start, f.end = "18/10/2026", "19/10/2026"
	req, errs := check(t, v, f)
	assert.Equal(t, []string{
		"StartDate must be at least 2 days after today.",
		"Stay duration must be at least 3 nights.",
	}, errs)
	require.NotNil(t, req.StartDate, "out of policy dates are still recorded")
	assert.Equal(t, "18/10/2026", req.StartDate.String())

	f.start = "2026-10-25"
	req, errs = check(t, v, f)
	assert.Equal(t, []string{"Invalid date format, expected DD/MM/YYYY."}, errs)
	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
}

func TestRoomRules(t *testing.T) {
	adult := `<Pax type="Adult" age="30"/>`
	child := func(age string) string { return `<Pax type="Child" age="` + age + `"/>` }

	t.Run("too many children still recorded", func(t *testing.T) {
		v := newTestValidator(t)
		f := validFixture()
		f.rooms = []string{adult + child("3") + child("5") + child("8")}

		req, errs := check(t, v, f)
		assert.Equal(t, []string{"Maximum allowed children per room: 2."}, errs)
		require.Len(t, req.Rooms, 1)
		assert.Equal(t, 3, req.Rooms[0].Children)
		assert.Equal(t, []int{3, 5, 8}, req.Rooms[0].ChildAges)
	})

	t.Run("children without adult", func(t *testing.T) {
		v := newTestValidator(t)
		f := validFixture()
		f.rooms = []string{child("4")}

		req, errs := check(t, v, f)
		assert.Equal(t, []string{"Each room must have at least one Adult if Children are present."}, errs)
		require.Len(t, req.Rooms, 1)
		assert.Equal(t, 0, req.Rooms[0].Adults)
	})

	t.Run("guest limit skips only that room", func(t *testing.T) {
		v := newTestValidator(t)
		f := validFixture()
		f.rooms = []string{adult + adult + adult + adult + adult, adult + child("9")}

		req, errs := check(t, v, f)
		assert.Equal(t, []string{"Maximum allowed guests per room: 4."}, errs)
		require.Len(t, req.Rooms, 1)
		assert.Equal(t, Room{Adults: 1, Children: 1, ChildAges: []int{9}}, req.Rooms[0])
	})

	t.Run("room limit leaves rooms empty", func(t *testing.T) {
		v := newTestValidator(t)
		f := validFixture()
		f.rooms = []string{adult, adult, adult, adult, adult, adult}

		req, errs := check(t, v, f)
		assert.Equal(t, []string{"Maximum allowed rooms: 5."}, errs)
		assert.NotNil(t, req.Rooms)
		assert.Empty(t, req.Rooms)
	})

	t.Run("non numeric and missing ages count as zero", func(t *testing.T) {
		v := newTestValidator(t)
		f := validFixture()
		f.rooms = []string{adult + child("ten") + `<Pax type="Child"/>`}

		req, errs := check(t, v, f)
		assert.Empty(t, errs)
		assert.Equal(t, []int{0, 0}, req.Rooms[0].ChildAges)
	})
}

func TestErrorsAccumulate(t *testing.T) {
	v := newTestValidator(t)
	f := validFixture()
	f.params = []string{`<Parameter/>`}
	f.searchType = "Single"
	f.destinations = []string{"MCO", "NYC"}
	f.start = "bad"
	f.rooms = []string{`<Pax type="Child" age="3"/><Pax type="Child" age="4"/><Pax type="Child" age="5"/>`}

	result, err := v.ValidateString(f.xml())
	require.NoError(t, err)
	require.False(t, result.OK())
	assert.Equal(t, []string{
		"Missing or invalid required parameters: password, username, CompanyID, CompanyID (invalid format)",
		"Single SearchType must have exactly one destination.",
		"Invalid date format, expected DD/MM/YYYY.",
		"Each room must have at least one Adult if Children are present.",
		"Maximum allowed children per room: 2.",
	}, result.Errors)
}

func TestValidateMalformed(t *testing.T) {
	v := newTestValidator(t)
	_, err := v.ValidateString(`<AvailRQ><StartDate>01/01/2030</EndDate></AvailRQ>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, xmlmap.ErrMalformedXML)
}

func TestValidateByteOrderMark(t *testing.T) {
	v := newTestValidator(t)
	result, err := v.ValidateString("\ufeff" + validFixture().xml())
	require.NoError(t, err)
	require.True(t, result.OK(), result.Errors)
	assert.Equal(t, []string{"MCO"}, result.Data.Destinations)
}

func TestSchemaRejection(t *testing.T) {
	calls := 0
	schema := SchemaFunc(func(root *etree.Element) error {
		calls++
		if root.Tag != "AvailRQ" {
			return errors.New("root element must be AvailRQ")
		}
		return nil
	})
	v := newTestValidator(t, WithSchema(schema))

	_, err := v.ValidateString(`<SearchRQ/>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaRejected)
	assert.Equal(t, "XML validation failed:\nroot element must be AvailRQ", err.Error())

	result, err := v.ValidateString(validFixture().xml())
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 2, calls)
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	bad := DefaultRules()
	bad.Currencies = validation.NewSet("EUR", "EURO")
	var verr *ValidationError
	require.ErrorAs(t, bad.Validate(), &verr)
	assert.Equal(t, "Currencies", verr.Field)

	bad = DefaultRules()
	bad.Defaults.Market = "FR"
	require.ErrorAs(t, bad.Validate(), &verr)
	assert.Equal(t, "Defaults.Market", verr.Field)

	bad = DefaultRules()
	bad.Limits.MaxRooms = 0
	_, err := NewRequestValidator(bad)
	require.Error(t, err)
}

func TestRulesAreCopied(t *testing.T) {
	rules := DefaultRules()
	v, err := NewRequestValidator(rules, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	rules.LanguageCodes["zz"] = struct{}{}
	f := validFixture()
	f.languageCode = "zz"
	req, _ := check(t, v, f)
	assert.Equal(t, "en", req.LanguageCode)
}
