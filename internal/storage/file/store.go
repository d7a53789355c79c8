// Package file stores year snapshots as JSON documents on disk, one file per
// year, with archived years kept under a history directory:
//
//	<dir>/zakat_data_2025.json
//	<dir>/history/zakat_data_2024.json
//	<dir>/active_year
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"zakat/internal/core"
	"zakat/internal/storage"
)

const (
	historyDir     = "history"
	activeYearFile = "active_year"
	filePrefix     = "zakat_data_"
	fileSuffix     = ".json"
)

type Store struct {
	dir string
}

var _ storage.SnapshotStore = (*Store)(nil)

// New creates dir and its history subdirectory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, historyDir), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) slotDir(slot storage.Slot) string {
	if slot == storage.SlotArchive {
		return filepath.Join(s.dir, historyDir)
	}
	return s.dir
}

// Path returns the document path for slot and year.
func (s *Store) Path(slot storage.Slot, year int) string {
	return filepath.Join(s.slotDir(slot), filePrefix+strconv.Itoa(year)+fileSuffix)
}

func (s *Store) Load(_ context.Context, slot storage.Slot, year int) (core.YearSnapshot, error) {
	data, err := os.ReadFile(s.Path(slot, year))
	if errors.Is(err, fs.ErrNotExist) {
		return core.YearSnapshot{}, storage.NotFound(slot, year)
	}
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "load " + string(slot), Year: year, Err: err}
	}
	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "load " + string(slot), Year: year, Err: err}
	}
	snap.Year = year
	return snap, nil
}

func (s *Store) Save(ctx context.Context, slot storage.Slot, year int, snap core.YearSnapshot) error {
	if !slot.IsValid() {
		return &core.StorageError{Op: "save", Year: year, Err: fmt.Errorf("unknown slot %q", slot)}
	}
	data, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return &core.StorageError{Op: "save " + string(slot), Year: year, Err: err}
	}
	if err := writeFileAtomic(s.Path(slot, year), data); err != nil {
		return &core.StorageError{Op: "save " + string(slot), Year: year, Err: err}
	}
	slog.DebugContext(ctx, "Year document written", "slot", slot, "year", year, "path", s.Path(slot, year))
	return nil
}

func (s *Store) Years(_ context.Context, slot storage.Slot) ([]int, error) {
	entries, err := os.ReadDir(s.slotDir(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.StorageError{Op: "list " + string(slot), Err: err}
	}
	var years []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		y, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	slices.Sort(years)
	return years, nil
}

func (s *Store) ActiveYear(_ context.Context) (int, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, activeYearFile))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &core.StorageError{Op: "read active year", Err: err}
	}
	year, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, &core.StorageError{Op: "read active year", Err: fmt.Errorf("parse %q: %w", data, err)}
	}
	return year, true, nil
}

func (s *Store) SetActiveYear(_ context.Context, year int) error {
	if err := writeFileAtomic(filepath.Join(s.dir, activeYearFile), []byte(strconv.Itoa(year)+"\n")); err != nil {
		return &core.StorageError{Op: "write active year", Year: year, Err: err}
	}
	return nil
}

// Reset removes every document and the active-year marker, then recreates
// the empty layout.
func (s *Store) Reset(ctx context.Context) error {
	for _, slot := range []storage.Slot{storage.SlotWorking, storage.SlotArchive} {
		years, err := s.Years(ctx, slot)
		if err != nil {
			return err
		}
		for _, y := range years {
			if err := os.Remove(s.Path(slot, y)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return &core.StorageError{Op: "reset", Year: y, Err: err}
			}
		}
	}
	if err := os.Remove(filepath.Join(s.dir, activeYearFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &core.StorageError{Op: "reset", Err: err}
	}
	slog.WarnContext(ctx, "All year documents deleted", "dir", s.dir)
	return nil
}

func (s *Store) Close() error { return nil }

// writeFileAtomic writes to a temp file in the same directory and renames it
// over path, so readers never observe a partial document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
