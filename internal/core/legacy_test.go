package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDesktopRecords(t *testing.T) {
	doc := `{
		"members": [{"id": 1700000000.5, "name": "Aisha", "photo": "x.jpg"}],
		"banks": [{"id": 1700000001.25, "name": "HBL", "account": "1", "type": "Current", "currency": "PKR", "balance": 10.5}],
		"properties": [
			{"id": 1, "name": "Shop", "value": 100, "for_trade": "yes"},
			{"id": 2, "name": "Home", "value": 100, "for_trade": "no"},
			{"id": "p3", "name": "Plot", "value": 100, "for_trade": true}
		],
		"gold": [{"id": 3, "owner": "Aisha", "weight": 1, "purity": 24}],
		"recipients": [{"id": 1700000002.75, "name": "Zaid", "category": "Cause of Allah (Fi Sabilillah)", "nic_photo": ""}],
		"payments": [{"id": 1700000003, "recipient_id": 1700000002.75, "amount": 5, "method": "Cash", "date": "2023-01-02", "notes": ""}]
	}`
	var s YearSnapshot
	require.NoError(t, json.Unmarshal([]byte(doc), &s))

	assert.Equal(t, "1700000000.5", s.Members[0].ID)
	assert.Equal(t, "HBL", s.Banks[0].Bank)
	assert.Equal(t, "Current", s.Banks[0].AccountType)
	assert.True(t, s.Banks[0].Balance.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, []bool{true, false, true}, []bool{s.Properties[0].ForTrade, s.Properties[1].ForTrade, s.Properties[2].ForTrade})
	assert.Equal(t, "p3", s.Properties[2].ID)
	assert.Equal(t, "24", s.Gold[0].Purity)
	assert.Equal(t, CategoryCauseOfAllah, s.Recipients[0].Category)
	assert.Equal(t, "1700000002.75", s.Payments[0].RecipientID)
	assert.Equal(t, "1700000003", s.Payments[0].ID)

	_, ok := s.FindRecipient(s.Payments[0].RecipientID)
	assert.True(t, ok)
}

func TestDecodeCurrentShapeRoundTrips(t *testing.T) {
	in := Recipient{ID: "r1", Name: "Zaid", Category: CategoryWayfarer}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Recipient
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	bank := BankAccount{ID: "b1", Bank: "Meezan", AccountType: AccountSavings, Currency: "PKR"}
	data, err = json.Marshal(bank)
	require.NoError(t, err)
	var gotBank BankAccount
	require.NoError(t, json.Unmarshal(data, &gotBank))
	assert.Equal(t, "Meezan", gotBank.Bank)
}

func TestDecodeRejectsUnreadableValues(t *testing.T) {
	var p TradeProperty
	assert.Error(t, json.Unmarshal([]byte(`{"for_trade": "maybe"}`), &p))

	var m Member
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &m))
}

func TestUnknownCategoryIsKeptForValidation(t *testing.T) {
	var r Recipient
	require.NoError(t, json.Unmarshal([]byte(`{"id": "r", "name": "Zaid", "category": "Friends"}`), &r))
	assert.Equal(t, RecipientCategory("Friends"), r.Category)
	assert.True(t, IsValidation(r.Validate()))
}

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"poor", "POOR", " Poor (Fuqara) ", "poor (fuqara)"} {
		c, ok := ParseCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, CategoryPoor, c, in)
	}
	_, ok := ParseCategory("friends")
	assert.False(t, ok)
}
