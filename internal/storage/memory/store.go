// Package memory is a process-local SnapshotStore used by tests and by the
// memory backend. Documents are kept encoded so callers never share state
// with the store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"zakat/internal/core"
	"zakat/internal/storage"
)

type key struct {
	slot storage.Slot
	year int
}

type Store struct {
	mu     sync.Mutex
	docs   map[key][]byte
	active *int
}

var _ storage.SnapshotStore = (*Store)(nil)

func New() *Store {
	return &Store{docs: map[key][]byte{}}
}

func (s *Store) Load(_ context.Context, slot storage.Slot, year int) (core.YearSnapshot, error) {
	s.mu.Lock()
	doc, ok := s.docs[key{slot, year}]
	s.mu.Unlock()
	if !ok {
		return core.YearSnapshot{}, storage.NotFound(slot, year)
	}
	snap, err := storage.DecodeSnapshot(doc)
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "load " + string(slot), Year: year, Err: err}
	}
	snap.Year = year
	return snap, nil
}

func (s *Store) Save(_ context.Context, slot storage.Slot, year int, snap core.YearSnapshot) error {
	if !slot.IsValid() {
		return &core.StorageError{Op: "save", Year: year, Err: fmt.Errorf("unknown slot %q", slot)}
	}
	doc, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return &core.StorageError{Op: "save " + string(slot), Year: year, Err: err}
	}
	s.Put(slot, year, doc)
	return nil
}

// Put stores a raw document body as-is.
func (s *Store) Put(slot storage.Slot, year int, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key{slot, year}] = slices.Clone(doc)
}

func (s *Store) Years(_ context.Context, slot storage.Slot) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var years []int
	for k := range s.docs {
		if k.slot == slot {
			years = append(years, k.year)
		}
	}
	slices.Sort(years)
	return years, nil
}

func (s *Store) ActiveYear(_ context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0, false, nil
	}
	return *s.active, true, nil
}

func (s *Store) SetActiveYear(_ context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &year
	return nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = map[key][]byte{}
	s.active = nil
	return nil
}

func (s *Store) Close() error { return nil }
