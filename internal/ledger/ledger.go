// Package ledger records zakat disbursements against recipients and derives
// paid and remaining balances from a snapshot.
package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zakat/internal/core"
	"zakat/internal/zakat"
)

// PaymentInput is what the caller supplies for a new disbursement.
type PaymentInput struct {
	RecipientID string
	Amount      decimal.Decimal
	Method      string
	Date        core.Date
	Notes       string
}

// TotalPaid sums every payment in the snapshot.
func TotalPaid(s core.YearSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingBalance is the obligation minus what has been paid. It is
// recomputed from assets, settings and payments on every call.
func RemainingBalance(s core.YearSnapshot) decimal.Decimal {
	return zakat.ComputeObligation(s).Sub(TotalPaid(s))
}

// ReceivedByRecipient sums the payments that reference recipientID.
func ReceivedByRecipient(s core.YearSnapshot, recipientID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.RecipientID == recipientID {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RecipientTotals returns the received total for every recipient, including
// those who have received nothing.
func RecipientTotals(s core.YearSnapshot) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Recipients))
	for _, r := range s.Recipients {
		out[r.ID] = decimal.Zero
	}
	for _, p := range s.Payments {
		if _, ok := out[p.RecipientID]; ok {
			out[p.RecipientID] = out[p.RecipientID].Add(p.Amount)
		}
	}
	return out
}

// RecordPayment validates in against s and returns the new payment along
// with a copy of s that contains it. s itself is never modified, so a
// rejected payment leaves the ledger unchanged.
func RecordPayment(s core.YearSnapshot, in PaymentInput) (core.Payment, core.YearSnapshot, error) {
	if _, ok := s.FindRecipient(in.RecipientID); !ok {
		return core.Payment{}, s, &core.ValidationError{
			Field:  "recipient_id",
			Reason: fmt.Sprintf("unknown recipient %q", in.RecipientID),
		}
	}

	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = core.MethodCash
	}
	date := in.Date
	if date.IsZero() {
		date = core.Today()
	}

	p := core.Payment{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		Amount:      in.Amount,
		Method:      method,
		Date:        date,
		Notes:       in.Notes,
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, s, err
	}

	remaining := RemainingBalance(s)
	if p.Amount.GreaterThan(remaining) {
		return core.Payment{}, s, &core.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("amount %s exceeds remaining balance %s", p.Amount, remaining),
		}
	}

	next := s.Clone()
	next.Payments = append(next.Payments, p)
	return p, next, nil
}
