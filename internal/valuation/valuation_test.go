package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"zakat/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvertToBase(t *testing.T) {
	rates := map[string]decimal.Decimal{"USD": d("280"), "JPY": d("1.9")}

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"known rate", "100", "USD", "28000"},
		{"fractional rate", "1000", "JPY", "1900"},
		{"missing rate defaults to 1", "250", "XAU", "250"},
		{"zero amount", "0", "USD", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertToBase(d(tt.amount), tt.currency, rates)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}

	assert.True(t, ConvertToBase(d("7"), "USD", nil).Equal(d("7")))
}

func TestGoldValue(t *testing.T) {
	s := core.DefaultSettings()

	tests := []struct {
		purity     string
		want       string
		recognized bool
	}{
		{"24", "1250000", true},
		{"22", "1145000", true},
		{"18", "937500", true},
		{"21", "937500", false},
		{"24k", "937500", false},
		{"", "937500", false},
	}
	for _, tt := range tests {
		t.Run("purity_"+tt.purity, func(t *testing.T) {
			got := GoldValue(d("5"), tt.purity, s)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
			_, recognized := ResolvePurity(tt.purity)
			assert.Equal(t, tt.recognized, recognized)
		})
	}
}

func TestValueCoversEveryVariant(t *testing.T) {
	s := core.DefaultSettings()
	cases := []struct {
		asset core.Asset
		want  string
	}{
		{core.CashHolding{Currency: "USD", Amount: d("100")}, "28000"},
		{core.BankAccount{Currency: "EUR", Balance: d("10")}, "3050"},
		{core.Receivable{Currency: "PKR", Amount: d("500")}, "500"},
		{core.GoldHolding{Weight: d("2"), Purity: "22"}, "458000"},
		{core.TradeProperty{Value: d("2000000"), ForTrade: false}, "2000000"},
	}
	for _, c := range cases {
		got := Value(c.asset, s)
		assert.True(t, got.Equal(d(c.want)), "%s: got %s want %s", c.asset.Kind(), got, c.want)
	}
}

func TestValueOfNilAssetIsZero(t *testing.T) {
	assert.True(t, Value(nil, core.DefaultSettings()).IsZero())
}
