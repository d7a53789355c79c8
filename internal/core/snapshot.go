package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Settings holds the rate and price tables a year is computed with.
type Settings struct {
	BaseCurrency  string                     `json:"base_currency"`
	ZakatRate     decimal.Decimal            `json:"zakat_rate"`
	Nisab         decimal.Decimal            `json:"nisab"`
	GoldPrice24K  decimal.Decimal            `json:"gold_price_24k"`
	GoldPrice22K  decimal.Decimal            `json:"gold_price_22k"`
	GoldPrice18K  decimal.Decimal            `json:"gold_price_18k"`
	CurrencyRates map[string]decimal.Decimal `json:"currency_rates"`
}

// DefaultCurrencies lists the currencies offered for entry, base first.
var DefaultCurrencies = []string{"PKR", "USD", "EUR", "CNY", "HKD", "SGD", "AED", "SAR", "GBP", "JPY"}

// DefaultSettings returns the settings a fresh year starts with.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency: "PKR",
		ZakatRate:    decimal.RequireFromString("2.5"),
		Nisab:        decimal.NewFromInt(150000),
		GoldPrice24K: decimal.NewFromInt(250000),
		GoldPrice22K: decimal.NewFromInt(229000),
		GoldPrice18K: decimal.NewFromInt(187500),
		CurrencyRates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(280),
			"EUR": decimal.NewFromInt(305),
			"CNY": decimal.NewFromInt(39),
			"HKD": decimal.NewFromInt(36),
			"SGD": decimal.NewFromInt(208),
			"PKR": decimal.NewFromInt(1),
			"AED": decimal.NewFromInt(76),
			"SAR": decimal.NewFromInt(75),
			"GBP": decimal.NewFromInt(355),
			"JPY": decimal.RequireFromString("1.9"),
		},
	}
}

// Validate rejects negative prices and rates and a zakat rate above 100%.
func (s Settings) Validate() error {
	if err := ValidateCurrency(s.BaseCurrency); err != nil {
		return err
	}
	if s.ZakatRate.IsNegative() || s.ZakatRate.GreaterThan(Hundred) {
		return &ValidationError{Field: "zakat_rate", Reason: "must be between 0 and 100"}
	}
	for field, v := range map[string]decimal.Decimal{
		"nisab":          s.Nisab,
		"gold_price_24k": s.GoldPrice24K,
		"gold_price_22k": s.GoldPrice22K,
		"gold_price_18k": s.GoldPrice18K,
	} {
		if err := validateNonNegative(field, v); err != nil {
			return err
		}
	}
	for code, rate := range s.CurrencyRates {
		if err := ValidateCurrency(code); err != nil {
			return err
		}
		if !rate.IsPositive() {
			return &ValidationError{Field: "currency_rates", Reason: fmt.Sprintf("rate for %s must be positive", code)}
		}
	}
	return nil
}

// Clone returns a copy that shares no map with s.
func (s Settings) Clone() Settings {
	s.CurrencyRates = maps.Clone(s.CurrencyRates)
	if s.CurrencyRates == nil {
		s.CurrencyRates = map[string]decimal.Decimal{}
	}
	return s
}

// YearSnapshot is the complete state of one zakat year.
type YearSnapshot struct {
	Year        int             `json:"year"`
	Members     []Member        `json:"members"`
	Cash        []CashHolding   `json:"cash"`
	Banks       []BankAccount   `json:"banks"`
	Receivables []Receivable    `json:"receivables"`
	Gold        []GoldHolding   `json:"gold"`
	Properties  []TradeProperty `json:"properties"`
	Recipients  []Recipient     `json:"recipients"`
	Payments    []Payment       `json:"payments"`
	Settings    Settings        `json:"settings"`
}

// NewSnapshot returns an empty snapshot for year using settings.
func NewSnapshot(year int, settings Settings) YearSnapshot {
	return YearSnapshot{
		Year:        year,
		Members:     []Member{},
		Cash:        []CashHolding{},
		Banks:       []BankAccount{},
		Receivables: []Receivable{},
		Gold:        []GoldHolding{},
		Properties:  []TradeProperty{},
		Recipients:  []Recipient{},
		Payments:    []Payment{},
		Settings:    settings.Clone(),
	}
}

// DefaultSnapshot is a fresh, default-initialized snapshot for year.
func DefaultSnapshot(year int) YearSnapshot {
	return NewSnapshot(year, DefaultSettings())
}

// Clone deep-copies the snapshot so that archived and active copies never
// share backing arrays.
func (s YearSnapshot) Clone() YearSnapshot {
	return YearSnapshot{
		Year:        s.Year,
		Members:     cloneSlice(s.Members),
		Cash:        cloneSlice(s.Cash),
		Banks:       cloneSlice(s.Banks),
		Receivables: cloneSlice(s.Receivables),
		Gold:        cloneSlice(s.Gold),
		Properties:  cloneSlice(s.Properties),
		Recipients:  cloneSlice(s.Recipients),
		Payments:    cloneSlice(s.Payments),
		Settings:    s.Settings.Clone(),
	}
}

// Normalize replaces nil slices, rate tables and the base currency left out
// by sparse documents.
func (s *YearSnapshot) Normalize() {
	s.Members = cloneSlice(s.Members)
	s.Cash = cloneSlice(s.Cash)
	s.Banks = cloneSlice(s.Banks)
	s.Receivables = cloneSlice(s.Receivables)
	s.Gold = cloneSlice(s.Gold)
	s.Properties = cloneSlice(s.Properties)
	s.Recipients = cloneSlice(s.Recipients)
	s.Payments = cloneSlice(s.Payments)
	if s.Settings.CurrencyRates == nil {
		s.Settings.CurrencyRates = map[string]decimal.Decimal{}
	}
	if s.Settings.BaseCurrency == "" {
		s.Settings.BaseCurrency = DefaultSettings().BaseCurrency
	}
}

// Assets lists every asset record in the snapshot as the closed variant.
func (s YearSnapshot) Assets() []Asset {
	out := make([]Asset, 0, len(s.Cash)+len(s.Banks)+len(s.Receivables)+len(s.Gold)+len(s.Properties))
	for _, a := range s.Cash {
		out = append(out, a)
	}
	for _, a := range s.Banks {
		out = append(out, a)
	}
	for _, a := range s.Receivables {
		out = append(out, a)
	}
	for _, a := range s.Gold {
		out = append(out, a)
	}
	for _, a := range s.Properties {
		out = append(out, a)
	}
	return out
}

// WithAsset returns a copy of s with a appended to the matching array.
func (s YearSnapshot) WithAsset(a Asset) YearSnapshot {
	next := s.Clone()
	switch v := a.(type) {
	case CashHolding:
		next.Cash = append(next.Cash, v)
	case BankAccount:
		next.Banks = append(next.Banks, v)
	case Receivable:
		next.Receivables = append(next.Receivables, v)
	case GoldHolding:
		next.Gold = append(next.Gold, v)
	case TradeProperty:
		next.Properties = append(next.Properties, v)
	}
	return next
}

// HasID reports whether any record in the snapshot already uses id.
func (s YearSnapshot) HasID(id string) bool {
	for _, a := range s.Assets() {
		if a.AssetID() == id {
			return true
		}
	}
	for _, m := range s.Members {
		if m.ID == id {
			return true
		}
	}
	for _, r := range s.Recipients {
		if r.ID == id {
			return true
		}
	}
	for _, p := range s.Payments {
		if p.ID == id {
			return true
		}
	}
	return false
}

// FindRecipient returns the recipient with id.
func (s YearSnapshot) FindRecipient(id string) (Recipient, bool) {
	i := slices.IndexFunc(s.Recipients, func(r Recipient) bool { return r.ID == id })
	if i < 0 {
		return Recipient{}, false
	}
	return s.Recipients[i], true
}

// Validate checks a whole snapshot before it replaces a stored one: the
// settings, every record, ids unique across all record arrays and every
// payment pointing at a recipient of the same snapshot.
func (s YearSnapshot) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}

	seen := make(map[string]string)
	check := func(kind, id string, err error) error {
		if id == "" {
			return &ValidationError{Field: "id", Reason: kind + " record has no id"}
		}
		if prev, dup := seen[id]; dup {
			return &ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q used by %s and %s", id, prev, kind)}
		}
		seen[id] = kind
		if err != nil {
			return fmt.Errorf("%s %s: %w", kind, id, err)
		}
		return nil
	}

	for _, a := range s.Assets() {
		if err := check(string(a.Kind()), a.AssetID(), a.Validate()); err != nil {
			return err
		}
	}
	for _, m := range s.Members {
		if err := check("member", m.ID, m.Validate()); err != nil {
			return err
		}
	}
	for _, r := range s.Recipients {
		if err := check("recipient", r.ID, r.Validate()); err != nil {
			return err
		}
	}
	for _, p := range s.Payments {
		if err := check("payment", p.ID, p.Validate()); err != nil {
			return err
		}
		if _, ok := s.FindRecipient(p.RecipientID); !ok {
			return &ValidationError{Field: "recipient_id", Reason: fmt.Sprintf("payment %s references unknown recipient %q", p.ID, p.RecipientID)}
		}
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
