package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pricing"
	"github.com/gilby125/hotel-availability/validation"
	"gopkg.in/yaml.v3"
)

// RulesFile is the optional YAML override of validation rules and rates.
// Omitted sections keep their built-in values.
type RulesFile struct {
	Defaults *struct {
		LanguageCode string `yaml:"language_code"`
		OptionsQuota *int   `yaml:"options_quota"`
		Currency     string `yaml:"currency"`
		Nationality  string `yaml:"nationality"`
		Market       string `yaml:"market"`
	} `yaml:"defaults"`

	Allowed *struct {
		LanguageCodes []string `yaml:"language_codes"`
		Currencies    []string `yaml:"currencies"`
		Nationalities []string `yaml:"nationalities"`
		Markets       []string `yaml:"markets"`
	} `yaml:"allowed"`

	Limits *struct {
		MaxOptionsQuota    *int `yaml:"max_options_quota"`
		MaxRooms           *int `yaml:"max_rooms"`
		MaxGuestsPerRoom   *int `yaml:"max_guests_per_room"`
		MaxChildrenPerRoom *int `yaml:"max_children_per_room"`
		MaxDestinations    *int `yaml:"max_destinations"`
		MinLeadDays        *int `yaml:"min_lead_days"`
		MinNights          *int `yaml:"min_nights"`
	} `yaml:"limits"`

	Pricing *struct {
		TargetCurrency string            `yaml:"target_currency"`
		Rates          map[string]string `yaml:"rates"`
	} `yaml:"pricing"`
}

// LoadRulesFile reads and decodes a rules file. Unknown keys are rejected.
func LoadRulesFile(path string) (*RulesFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	var rf RulesFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode rules file %s: %w", path, err)
	}
	return &rf, nil
}

// HotelRules applies the file on top of base.
func (rf *RulesFile) HotelRules(base hotels.Rules) hotels.Rules {
	r := base
	if d := rf.Defaults; d != nil {
		setString(&r.Defaults.LanguageCode, d.LanguageCode)
		setString(&r.Defaults.Currency, d.Currency)
		setString(&r.Defaults.Nationality, d.Nationality)
		setString(&r.Defaults.Market, d.Market)
		setInt(&r.Defaults.OptionsQuota, d.OptionsQuota)
	}
	if a := rf.Allowed; a != nil {
		setSet(&r.LanguageCodes, a.LanguageCodes)
		setSet(&r.Currencies, a.Currencies)
		setSet(&r.Nationalities, a.Nationalities)
		setSet(&r.Markets, a.Markets)
	}
	if l := rf.Limits; l != nil {
		setInt(&r.Limits.MaxOptionsQuota, l.MaxOptionsQuota)
		setInt(&r.Limits.MaxRooms, l.MaxRooms)
		setInt(&r.Limits.MaxGuestsPerRoom, l.MaxGuestsPerRoom)
		setInt(&r.Limits.MaxChildrenPerRoom, l.MaxChildrenPerRoom)
		setInt(&r.Limits.MaxDestinations, l.MaxDestinations)
		setInt(&r.Limits.MinLeadDays, l.MinLeadDays)
		setInt(&r.Limits.MinNights, l.MinNights)
	}
	return r
}

// ApplyPricing overrides p with the file's pricing section.
func (rf *RulesFile) ApplyPricing(p PricingConfig) PricingConfig {
	if rf.Pricing == nil {
		return p
	}
	setString(&p.TargetCurrency, rf.Pricing.TargetCurrency)
	if len(rf.Pricing.Rates) > 0 {
		table := make([]string, 0, len(rf.Pricing.Rates))
		for code, rate := range rf.Pricing.Rates {
			table = append(table, code+":"+rate)
		}
		sort.Strings(table)
		p.Rates = strings.Join(table, ",")
	}
	return p
}

// LoadRules returns the validation rules and pricing settings, with the
// rules file applied when RulesFile is set.
func (c *Config) LoadRules() (hotels.Rules, PricingConfig, error) {
	rules := hotels.DefaultRules()
	if c.RulesFile == "" {
		return rules, c.PricingConfig, nil
	}
	rf, err := LoadRulesFile(c.RulesFile)
	if err != nil {
		return hotels.Rules{}, PricingConfig{}, err
	}
	return rf.HotelRules(rules), rf.ApplyPricing(c.PricingConfig), nil
}

// Converter builds the pricing converter from the pricing config.
func (p PricingConfig) Converter() (*pricing.Converter, error) {
	rates, err := pricing.ParseRates(p.Rates)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICING_RATES: %w", err)
	}
	return pricing.NewConverter(p.TargetCurrency, rates)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setSet(dst *validation.Set, values []string) {
	if len(values) > 0 {
		*dst = validation.NewSet(values...)
	}
}
