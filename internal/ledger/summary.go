package ledger

import (
	"github.com/shopspring/decimal"

	"zakat/internal/core"
	"zakat/internal/zakat"
)

// Summary is what the dashboard shows for one year.
type Summary struct {
	Year int `json:"year"`
	zakat.Assessment
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ComputeSummary composes valuation, the zakat calculation and the payment
// ledger over s.
func ComputeSummary(s core.YearSnapshot) Summary {
	a := zakat.Assess(s)
	paid := TotalPaid(s)
	return Summary{
		Year:       s.Year,
		Assessment: a,
		TotalPaid:  paid,
		Remaining:  a.TotalObligation.Sub(paid),
	}
}

// RecipientBalance pairs a recipient with the cumulative amount received.
type RecipientBalance struct {
	core.Recipient
	Received decimal.Decimal `json:"received"`
}

// Recipients lists every recipient with the derived received total, in the
// order they were added.
func Recipients(s core.YearSnapshot) []RecipientBalance {
	totals := RecipientTotals(s)
	out := make([]RecipientBalance, 0, len(s.Recipients))
	for _, r := range s.Recipients {
		out = append(out, RecipientBalance{Recipient: r, Received: totals[r.ID]})
	}
	return out
}
