package amqp

import (
	"encoding/json"
	"time"

	"zakat/internal/core"
)

// LedgerEventMessage is the wire form of a core.LedgerEvent.
type LedgerEventMessage struct {
	core.LedgerEvent
	PublishedAt time.Time `json:"published_at"`
}

// NewLedgerEventMessage stamps e with the publish time.
func NewLedgerEventMessage(e core.LedgerEvent) *LedgerEventMessage {
	now := time.Now().UTC()
	if e.At.IsZero() {
		e.At = now
	}
	return &LedgerEventMessage{LedgerEvent: e, PublishedAt: now}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
