// Package valuation converts currency amounts and gold holdings into the
// base currency using a year's rate and price tables.
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"zakat/internal/core"
)

// Rate returns the conversion rate for currency, or 1 when the table has no
// entry for it. A missing rate is not an error.
func Rate(currency string, rates map[string]decimal.Decimal) decimal.Decimal {
	if r, ok := rates[currency]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// ConvertToBase returns amount × rate(currency).
func ConvertToBase(amount decimal.Decimal, currency string, rates map[string]decimal.Decimal) decimal.Decimal {
	return amount.Mul(Rate(currency, rates))
}

// ResolvePurity maps a purity string to the price tier it is valued at.
// "24" and "22" resolve to themselves; every other value, including
// unrecognized strings, resolves to the 18k tier with recognized=false
// unless it is exactly "18".
func ResolvePurity(purity string) (tier string, recognized bool) {
	switch purity {
	case core.Purity24:
		return core.Purity24, true
	case core.Purity22:
		return core.Purity22, true
	case core.Purity18:
		return core.Purity18, true
	default:
		return core.Purity18, false
	}
}

// PriceFor returns the per-tola price for a purity string.
func PriceFor(purity string, s core.Settings) decimal.Decimal {
	tier, _ := ResolvePurity(purity)
	switch tier {
	case core.Purity24:
		return s.GoldPrice24K
	case core.Purity22:
		return s.GoldPrice22K
	default:
		return s.GoldPrice18K
	}
}

// GoldValue returns weight × price for the purity tier.
func GoldValue(weight decimal.Decimal, purity string, s core.Settings) decimal.Decimal {
	return weight.Mul(PriceFor(purity, s))
}

// Value returns the base-currency value of any asset variant. Trade property
// is valued at its declared value whether or not it is held for trade;
// eligibility is the calculator's decision. A nil asset is worth zero.
func Value(a core.Asset, s core.Settings) decimal.Decimal {
	switch v := a.(type) {
	case nil:
		return decimal.Zero
	case core.CashHolding:
		return ConvertToBase(v.Amount, v.Currency, s.CurrencyRates)
	case core.BankAccount:
		return ConvertToBase(v.Balance, v.Currency, s.CurrencyRates)
	case core.Receivable:
		return ConvertToBase(v.Amount, v.Currency, s.CurrencyRates)
	case core.GoldHolding:
		return GoldValue(v.Weight, v.Purity, s)
	case core.TradeProperty:
		return v.Value
	default:
		panic(fmt.Sprintf("valuation: unhandled asset type %T", a))
	}
}
