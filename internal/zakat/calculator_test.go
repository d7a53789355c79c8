package zakat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zakat/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func snapshot() core.YearSnapshot {
	return core.DefaultSnapshot(2025)
}

func TestComputeObligation_Empty(t *testing.T) {
	assert.True(t, ComputeObligation(snapshot()).IsZero())
}

func TestComputeObligation_Examples(t *testing.T) {
	tests := []struct {
		name  string
		asset core.Asset
		want  string
	}{
		{"cash in USD", core.CashHolding{ID: "c", Holder: "h", Currency: "USD", Amount: d("100")}, "700"},
		{"24k gold", core.GoldHolding{ID: "g", Owner: "o", Weight: d("5"), Purity: "24"}, "31250"},
		{"trade property held for trade", core.TradeProperty{ID: "p", Name: "Shop", Value: d("2000000"), ForTrade: true}, "50000"},
		{"personal-use property", core.TradeProperty{ID: "p", Name: "Home", Value: d("2000000"), ForTrade: false}, "0"},
		{"bank balance", core.BankAccount{ID: "b", Bank: "HBL", Currency: "PKR", Balance: d("40000")}, "1000"},
		{"receivable with unknown currency", core.Receivable{ID: "r", Debtor: "x", Currency: "XYZ", Amount: d("1000")}, "25"},
		{"unrecognized purity falls back to 18k", core.GoldHolding{ID: "g", Owner: "o", Weight: d("1"), Purity: "21"}, "4687.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeObligation(snapshot().WithAsset(tt.asset))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeObligation_IsRateTimesBase(t *testing.T) {
	s := snapshot().
		WithAsset(core.CashHolding{ID: "c1", Currency: "USD", Amount: d("100")}).
		WithAsset(core.CashHolding{ID: "c2", Currency: "EUR", Amount: d("12.5")}).
		WithAsset(core.BankAccount{ID: "b1", Currency: "GBP", Balance: d("1000")}).
		WithAsset(core.Receivable{ID: "r1", Currency: "JPY", Amount: d("10000")}).
		WithAsset(core.GoldHolding{ID: "g1", Weight: d("2.5"), Purity: "22"}).
		WithAsset(core.TradeProperty{ID: "p1", Value: d("500000"), ForTrade: true}).
		WithAsset(core.TradeProperty{ID: "p2", Value: d("9000000")})
	s.Members = append(s.Members, core.Member{ID: "m1", Name: "Aisha"})

	for _, rate := range []string{"0", "2.5", "10", "100"} {
		s.Settings.ZakatRate = d(rate)
		want := ZakatableBase(s).Mul(d(rate)).Div(d("100"))
		assert.True(t, ComputeObligation(s).Equal(want), "rate %s", rate)
	}

	// 28000 + 3812.5 + 355000 + 19000 + 572500 + 500000
	assert.True(t, ZakatableBase(s).Equal(d("1478312.5")), "base %s", ZakatableBase(s))
}

func TestNoNisabGating(t *testing.T) {
	s := snapshot().WithAsset(core.CashHolding{ID: "c", Currency: "PKR", Amount: d("1000")})
	require.True(t, s.Settings.Nisab.GreaterThan(d("1000")))

	assert.False(t, MeetsNisab(s))
	assert.True(t, ComputeObligation(s).Equal(d("25")))
}

func TestAssess(t *testing.T) {
	s := snapshot().
		WithAsset(core.CashHolding{ID: "c1", Currency: "USD", Amount: d("100")}).
		WithAsset(core.BankAccount{ID: "b1", Currency: "USD", Balance: d("50")}).
		WithAsset(core.CashHolding{ID: "c2", Currency: "AED", Amount: d("0")}).
		WithAsset(core.Receivable{ID: "r1", Currency: "EUR", Amount: d("10")}).
		WithAsset(core.GoldHolding{ID: "g1", Weight: d("5"), Purity: "24"}).
		WithAsset(core.GoldHolding{ID: "g2", Weight: d("1"), Purity: "14"})

	a := Assess(s)

	require.Len(t, a.PerCurrency, 2)
	assert.Equal(t, "EUR", a.PerCurrency[0].Currency)
	assert.Equal(t, "USD", a.PerCurrency[1].Currency)
	assert.True(t, a.PerCurrency[1].Amount.Equal(d("150")))
	assert.True(t, a.PerCurrency[1].BaseValue.Equal(d("42000")))
	assert.True(t, a.PerCurrency[1].Zakat.Equal(d("1050")))

	assert.Equal(t, 2, a.Gold.Holdings)
	assert.True(t, a.Gold.TotalWeight.Equal(d("6")))
	assert.True(t, a.Gold.TotalValue.Equal(d("1437500")))
	assert.True(t, a.Gold.Zakat.Equal(d("35937.5")))
	assert.Equal(t, []string{"14"}, a.Gold.FallbackPurities)

	assert.True(t, a.TotalObligation.Equal(ComputeObligation(s)))
	assert.True(t, a.MeetsNisab)
}

func TestZakatableNilAssetContributesNothing(t *testing.T) {
	assert.True(t, Zakatable(nil, core.DefaultSettings()).IsZero())
}
