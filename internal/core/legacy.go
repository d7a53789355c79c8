package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Year documents written by the desktop version of the ledger use float
// timestamps as ids, "yes"/"no" for for_trade, "name" for the bank name and
// display labels as recipient categories. The decoders below accept both
// shapes; encoding always writes the current one.

// flexString decodes a JSON string or number into its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("want string or number, got %s", b)
		}
		*f = flexString(n.String())
	}
	return nil
}

// flexBool decodes a JSON bool or a yes/no string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = flexBool(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "true", "1":
			*f = true
		case "no", "n", "false", "0", "":
			*f = false
		default:
			return fmt.Errorf("want yes or no, got %q", t)
		}
	default:
		return fmt.Errorf("want bool or yes/no, got %s", b)
	}
	return nil
}

func (m *Member) UnmarshalJSON(b []byte) error {
	type plain Member
	var v struct {
		plain
		ID flexString `json:"id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Member(v.plain)
	m.ID = string(v.ID)
	return nil
}

func (a *CashHolding) UnmarshalJSON(b []byte) error {
	type plain CashHolding
	var v struct {
		plain
		ID flexString `json:"id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = CashHolding(v.plain)
	a.ID = string(v.ID)
	return nil
}

func (a *BankAccount) UnmarshalJSON(b []byte) error {
	type plain BankAccount
	var v struct {
		plain
		ID   flexString `json:"id"`
		Name string     `json:"name"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = BankAccount(v.plain)
	a.ID = string(v.ID)
	if a.Bank == "" {
		a.Bank = v.Name
	}
	return nil
}

func (a *Receivable) UnmarshalJSON(b []byte) error {
	type plain Receivable
	var v struct {
		plain
		ID flexString `json:"id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Receivable(v.plain)
	a.ID = string(v.ID)
	return nil
}

func (a *GoldHolding) UnmarshalJSON(b []byte) error {
	type plain GoldHolding
	var v struct {
		plain
		ID     flexString `json:"id"`
		Purity flexString `json:"purity"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = GoldHolding(v.plain)
	a.ID = string(v.ID)
	a.Purity = string(v.Purity)
	return nil
}

func (a *TradeProperty) UnmarshalJSON(b []byte) error {
	type plain TradeProperty
	var v struct {
		plain
		ID       flexString `json:"id"`
		ForTrade flexBool   `json:"for_trade"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = TradeProperty(v.plain)
	a.ID = string(v.ID)
	a.ForTrade = bool(v.ForTrade)
	return nil
}

// UnmarshalJSON maps a category label such as "Poor (Fuqara)" to its code.
// Unknown categories are kept as written and rejected by Validate.
func (r *Recipient) UnmarshalJSON(b []byte) error {
	type plain Recipient
	var v struct {
		plain
		ID       flexString `json:"id"`
		Category string     `json:"category"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Recipient(v.plain)
	r.ID = string(v.ID)
	r.Category = RecipientCategory(v.Category)
	if c, ok := ParseCategory(v.Category); ok {
		r.Category = c
	}
	return nil
}

func (p *Payment) UnmarshalJSON(b []byte) error {
	type plain Payment
	var v struct {
		plain
		ID          flexString `json:"id"`
		RecipientID flexString `json:"recipient_id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Payment(v.plain)
	p.ID = string(v.ID)
	p.RecipientID = string(v.RecipientID)
	return nil
}
