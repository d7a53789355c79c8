package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"zakat/internal/core"
)

// Slot separates the per-year documents being edited from the immutable
// archive written by year transitions.
type Slot string

const (
	SlotWorking Slot = "working"
	SlotArchive Slot = "archive"
)

func (s Slot) IsValid() bool {
	return s == SlotWorking || s == SlotArchive
}

// SnapshotStore persists year snapshots. Implementations return an error
// wrapping core.ErrNotFound when no document exists for a slot and year, and
// a *core.StorageError for every other failure.
type SnapshotStore interface {
	// Load returns the document for slot and year with its Year set to year,
	// whatever the document itself says.
	Load(ctx context.Context, slot Slot, year int) (core.YearSnapshot, error)
	// Save fully overwrites the document for slot and year.
	Save(ctx context.Context, slot Slot, year int, s core.YearSnapshot) error
	// Years lists the years that have a document in slot, ascending.
	Years(ctx context.Context, slot Slot) ([]int, error)
	ActiveYear(ctx context.Context) (year int, ok bool, err error)
	SetActiveYear(ctx context.Context, year int) error
	// Reset deletes every document and the active-year marker.
	Reset(ctx context.Context) error
	Close() error
}

// EncodeSnapshot renders the persisted document for s.
func EncodeSnapshot(s core.YearSnapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DecodeSnapshot parses a persisted document. Sparse documents are
// normalized so that callers never see nil arrays, and a document with no
// settings object gets the default settings.
func DecodeSnapshot(data []byte) (core.YearSnapshot, error) {
	var doc struct {
		core.YearSnapshot
		RawSettings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.YearSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	s := doc.YearSnapshot
	if len(doc.RawSettings) == 0 || string(doc.RawSettings) == "null" {
		s.Settings = core.DefaultSettings()
	} else if err := json.Unmarshal(doc.RawSettings, &s.Settings); err != nil {
		return core.YearSnapshot{}, fmt.Errorf("decode settings: %w", err)
	}
	s.Normalize()
	return s, nil
}

// NotFound builds the error stores return for a missing document.
func NotFound(slot Slot, year int) error {
	return fmt.Errorf("%s document for year %d: %w", slot, year, core.ErrNotFound)
}
