package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetValidate(t *testing.T) {
	good := []Asset{
		CashHolding{ID: "c1", Holder: "Aisha", Currency: "USD", Amount: decimal.NewFromInt(100)},
		BankAccount{ID: "b1", Bank: "HBL", Currency: "PKR", Balance: decimal.Zero},
		Receivable{ID: "r1", Debtor: "Bilal", Currency: "AED", Amount: decimal.NewFromInt(5)},
		GoldHolding{ID: "g1", Owner: "Aisha", Weight: decimal.NewFromInt(5), Purity: "24"},
		GoldHolding{ID: "g2", Owner: "Aisha", Weight: decimal.NewFromInt(1), Purity: "21"},
		TradeProperty{ID: "p1", Name: "Shop", Value: decimal.NewFromInt(2000000), ForTrade: true},
	}
	for _, a := range good {
		assert.NoError(t, a.Validate(), "%s %s", a.Kind(), a.AssetID())
	}

	bad := []Asset{
		CashHolding{Holder: "", Currency: "USD", Amount: decimal.NewFromInt(1)},
		CashHolding{Holder: "x", Currency: "usd", Amount: decimal.NewFromInt(1)},
		CashHolding{Holder: "x", Currency: "USD", Amount: decimal.NewFromInt(-1)},
		BankAccount{Bank: "HBL", Currency: "RUPEES", Balance: decimal.NewFromInt(1)},
		Receivable{Debtor: "", Currency: "USD"},
		GoldHolding{Owner: "x", Weight: decimal.Zero, Purity: "24"},
		TradeProperty{Name: "Shop", Value: decimal.NewFromInt(-5)},
	}
	for i, a := range bad {
		err := a.Validate()
		require.Error(t, err, "case %d", i)
		assert.True(t, IsValidation(err), "case %d: %T", i, err)
	}
}

func TestRecipientCategory(t *testing.T) {
	assert.Len(t, Categories(), 8)
	for _, c := range Categories() {
		assert.True(t, c.IsValid())
		assert.NotEqual(t, string(c), c.Label())
	}
	assert.False(t, RecipientCategory("friend").IsValid())

	err := Recipient{Name: "Zaid", Category: "friend"}.Validate()
	assert.True(t, IsValidation(err))
}

func TestPaymentValidate(t *testing.T) {
	ok := Payment{RecipientID: "r1", Amount: decimal.NewFromInt(10), Date: NewDate(2025, 3, 1)}
	require.NoError(t, ok.Validate())

	bads := []Payment{
		{RecipientID: "", Amount: decimal.NewFromInt(10), Date: NewDate(2025, 3, 1)},
		{RecipientID: "r1", Amount: decimal.Zero, Date: NewDate(2025, 3, 1)},
		{RecipientID: "r1", Amount: decimal.NewFromInt(10)},
	}
	for i, p := range bads {
		assert.Error(t, p.Validate(), "case %d", i)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 3, 14)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))

	_, err = ParseDate("14/03/2025")
	assert.True(t, IsValidation(err))
}
