// Package zakat applies asset-class eligibility and the configured rate to a
// valuated snapshot.
package zakat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"zakat/internal/core"
	"zakat/internal/valuation"
)

// Zakatable returns the base value an asset contributes to the zakatable
// base. Cash, bank balances, receivables and gold always count in full;
// property counts only when held for trade. A nil asset contributes nothing.
func Zakatable(a core.Asset, s core.Settings) decimal.Decimal {
	switch v := a.(type) {
	case nil:
		return decimal.Zero
	case core.CashHolding, core.BankAccount, core.Receivable, core.GoldHolding:
		return valuation.Value(v, s)
	case core.TradeProperty:
		if v.ForTrade {
			return v.Value
		}
		return decimal.Zero
	default:
		panic(fmt.Sprintf("zakat: unhandled asset type %T", a))
	}
}

// ZakatableBase sums the zakatable value of every asset in the snapshot.
// Members and recipients are identity records and never contribute.
func ZakatableBase(s core.YearSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Assets() {
		total = total.Add(Zakatable(a, s.Settings))
	}
	return total
}

// Apply returns base × rate / 100.
func Apply(base decimal.Decimal, s core.Settings) decimal.Decimal {
	return base.Mul(s.ZakatRate).Div(core.Hundred)
}

// ComputeObligation returns the zakat due for the snapshot. No nisab gating
// is applied: the obligation is the rate applied to whatever base exists.
func ComputeObligation(s core.YearSnapshot) decimal.Decimal {
	return Apply(ZakatableBase(s), s.Settings)
}

// MeetsNisab reports whether the zakatable base reaches the configured
// threshold. It is informational only.
func MeetsNisab(s core.YearSnapshot) bool {
	return ZakatableBase(s).GreaterThanOrEqual(s.Settings.Nisab)
}
