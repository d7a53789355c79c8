package zakat

import (
	"sort"

	"github.com/shopspring/decimal"

	"zakat/internal/core"
	"zakat/internal/valuation"
)

// CurrencyLine aggregates cash, bank and receivable holdings in one currency.
type CurrencyLine struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	BaseValue decimal.Decimal `json:"base_value"`
	Zakat     decimal.Decimal `json:"zakat"`
}

// GoldSummary totals the gold holdings of a year. FallbackPurities lists
// purity strings that were not a known tier and were valued at 18k.
type GoldSummary struct {
	Holdings         int             `json:"holdings"`
	TotalWeight      decimal.Decimal `json:"total_weight"`
	TotalValue       decimal.Decimal `json:"total_value"`
	Zakat            decimal.Decimal `json:"zakat"`
	FallbackPurities []string        `json:"fallback_purities,omitempty"`
}

// Assessment is the liability side of a year: what is owed and why.
type Assessment struct {
	ZakatableBase   decimal.Decimal `json:"zakatable_base"`
	TotalObligation decimal.Decimal `json:"total_obligation"`
	MeetsNisab      bool            `json:"meets_nisab"`
	PerCurrency     []CurrencyLine  `json:"per_currency"`
	Gold            GoldSummary     `json:"gold"`
}

// Assess computes the obligation together with the per-currency and gold
// breakdowns shown on the dashboard.
func Assess(s core.YearSnapshot) Assessment {
	base := ZakatableBase(s)
	return Assessment{
		ZakatableBase:   base,
		TotalObligation: Apply(base, s.Settings),
		MeetsNisab:      base.GreaterThanOrEqual(s.Settings.Nisab),
		PerCurrency:     currencyBreakdown(s),
		Gold:            goldSummary(s),
	}
}

func currencyBreakdown(s core.YearSnapshot) []CurrencyLine {
	totals := map[string]decimal.Decimal{}
	add := func(currency string, amount decimal.Decimal) {
		totals[currency] = totals[currency].Add(amount)
	}
	for _, c := range s.Cash {
		add(c.Currency, c.Amount)
	}
	for _, b := range s.Banks {
		add(b.Currency, b.Balance)
	}
	for _, r := range s.Receivables {
		add(r.Currency, r.Amount)
	}

	lines := make([]CurrencyLine, 0, len(totals))
	for currency, amount := range totals {
		if !amount.IsPositive() {
			continue
		}
		rate := valuation.Rate(currency, s.Settings.CurrencyRates)
		baseValue := amount.Mul(rate)
		lines = append(lines, CurrencyLine{
			Currency:  currency,
			Amount:    amount,
			Rate:      rate,
			BaseValue: baseValue,
			Zakat:     Apply(baseValue, s.Settings),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Currency < lines[j].Currency })
	return lines
}

func goldSummary(s core.YearSnapshot) GoldSummary {
	g := GoldSummary{
		Holdings:    len(s.Gold),
		TotalWeight: decimal.Zero,
		TotalValue:  decimal.Zero,
	}
	seen := map[string]bool{}
	for _, h := range s.Gold {
		g.TotalWeight = g.TotalWeight.Add(h.Weight)
		g.TotalValue = g.TotalValue.Add(valuation.GoldValue(h.Weight, h.Purity, s.Settings))
		if _, ok := valuation.ResolvePurity(h.Purity); !ok && !seen[h.Purity] {
			seen[h.Purity] = true
			g.FallbackPurities = append(g.FallbackPurities, h.Purity)
		}
	}
	g.Zakat = Apply(g.TotalValue, s.Settings)
	return g
}
