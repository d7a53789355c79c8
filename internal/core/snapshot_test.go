package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, "PKR", s.BaseCurrency)
	assert.True(t, s.ZakatRate.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, s.CurrencyRates["USD"].Equal(decimal.NewFromInt(280)))
	assert.True(t, s.CurrencyRates["JPY"].Equal(decimal.RequireFromString("1.9")))
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	s.ZakatRate = decimal.NewFromInt(101)
	assert.True(t, IsValidation(s.Validate()))

	s = DefaultSettings()
	s.CurrencyRates["EUR"] = decimal.Zero
	assert.True(t, IsValidation(s.Validate()))

	s = DefaultSettings()
	s.GoldPrice18K = decimal.NewFromInt(-1)
	assert.True(t, IsValidation(s.Validate()))
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	orig := DefaultSnapshot(2024)
	orig.Cash = append(orig.Cash, CashHolding{ID: "c1", Holder: "a", Currency: "USD", Amount: decimal.NewFromInt(1)})

	cp := orig.Clone()
	cp.Cash[0].Amount = decimal.NewFromInt(999)
	cp.Settings.CurrencyRates["USD"] = decimal.NewFromInt(1)
	cp.Members = append(cp.Members, Member{ID: "m1", Name: "x"})

	assert.True(t, orig.Cash[0].Amount.Equal(decimal.NewFromInt(1)))
	assert.True(t, orig.Settings.CurrencyRates["USD"].Equal(decimal.NewFromInt(280)))
	assert.Empty(t, orig.Members)
}

func TestSnapshotAssetsAndIDs(t *testing.T) {
	s := DefaultSnapshot(2024).
		WithAsset(CashHolding{ID: "c1"}).
		WithAsset(BankAccount{ID: "b1"}).
		WithAsset(Receivable{ID: "r1"}).
		WithAsset(GoldHolding{ID: "g1"}).
		WithAsset(TradeProperty{ID: "p1"})
	s.Recipients = append(s.Recipients, Recipient{ID: "rc1", Name: "Zaid", Category: CategoryPoor})

	kinds := map[AssetKind]int{}
	for _, a := range s.Assets() {
		kinds[a.Kind()]++
	}
	assert.Equal(t, map[AssetKind]int{KindCash: 1, KindBank: 1, KindReceivable: 1, KindGold: 1, KindProperty: 1}, kinds)

	assert.True(t, s.HasID("g1"))
	assert.True(t, s.HasID("rc1"))
	assert.False(t, s.HasID("nope"))

	r, ok := s.FindRecipient("rc1")
	assert.True(t, ok)
	assert.Equal(t, "Zaid", r.Name)
}

func TestNormalizeFillsNils(t *testing.T) {
	var s YearSnapshot
	s.Normalize()
	assert.NotNil(t, s.Cash)
	assert.NotNil(t, s.Payments)
	assert.NotNil(t, s.Settings.CurrencyRates)
}

func TestNormalizeDefaultsBaseCurrency(t *testing.T) {
	s := YearSnapshot{Settings: Settings{ZakatRate: decimal.RequireFromString("2.5")}}
	s.Normalize()
	assert.Equal(t, "PKR", s.Settings.BaseCurrency)
	assert.NoError(t, s.Settings.Validate())
}

func TestSnapshotValidate(t *testing.T) {
	valid := func() YearSnapshot {
		s := DefaultSnapshot(2024).
			WithAsset(CashHolding{ID: "c1", Holder: "Aisha", Currency: "PKR", Amount: decimal.NewFromInt(5000)})
		s.Members = append(s.Members, Member{ID: "m1", Name: "Aisha"})
		s.Recipients = append(s.Recipients, Recipient{ID: "r1", Name: "Zaid", Category: CategoryPoor})
		s.Payments = append(s.Payments, Payment{ID: "p1", RecipientID: "r1", Amount: decimal.NewFromInt(10), Method: MethodCash, Date: NewDate(2024, 3, 1)})
		return s
	}
	require.NoError(t, valid().Validate())
	require.NoError(t, DefaultSnapshot(2024).Validate())

	tests := []struct {
		name   string
		mutate func(*YearSnapshot)
		field  string
	}{
		{"duplicate id across arrays", func(s *YearSnapshot) { s.Payments[0].ID = "c1" }, "id"},
		{"duplicate member id", func(s *YearSnapshot) { s.Members = append(s.Members, Member{ID: "m1", Name: "B"}) }, "id"},
		{"missing id", func(s *YearSnapshot) { s.Members[0].ID = "" }, "id"},
		{"payment to unknown recipient", func(s *YearSnapshot) { s.Payments[0].RecipientID = "ghost" }, "recipient_id"},
		{"invalid asset", func(s *YearSnapshot) { s.Cash[0].Currency = "pkr" }, "currency"},
		{"invalid recipient", func(s *YearSnapshot) { s.Recipients[0].Category = "friends" }, "category"},
		{"invalid payment", func(s *YearSnapshot) { s.Payments[0].Amount = decimal.Zero }, "amount"},
		{"invalid settings", func(s *YearSnapshot) { s.Settings.ZakatRate = decimal.NewFromInt(-1) }, "zakat_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
