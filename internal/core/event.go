package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a ledger transition.
type EventType string

const (
	EventRecordAdded     EventType = "record_added"
	EventPaymentRecorded EventType = "payment_recorded"
	EventSettingsUpdated EventType = "settings_updated"
	EventYearAdvanced    EventType = "year_advanced"
	EventYearSwitched    EventType = "year_switched"
	EventYearRestored    EventType = "year_restored"
	EventYearSaved       EventType = "year_saved"
	EventReset           EventType = "reset"
)

// LedgerEvent describes a persisted change. Only the fields relevant to
// Type are set.
type LedgerEvent struct {
	Type       EventType        `json:"type"`
	Year       int              `json:"year"`
	TargetYear int              `json:"target_year,omitempty"`
	RecordKind string           `json:"record_kind,omitempty"`
	RecordID   string           `json:"record_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Remaining  *decimal.Decimal `json:"remaining,omitempty"`
	At         time.Time        `json:"at"`
}
