package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"zakat/internal/core"

	_ "modernc.org/sqlite"
)

const stateActiveYear = "active_year"

// SQLiteRepository keeps one JSON document per slot and year in SQLite.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ SnapshotStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "schema_version", version)

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements SnapshotStore
func (r *SQLiteRepository) Load(ctx context.Context, slot Slot, year int) (core.YearSnapshot, error) {
	doc, err := r.queries.GetDocument(ctx, string(slot), int64(year))
	if errors.Is(err, sql.ErrNoRows) {
		return core.YearSnapshot{}, NotFound(slot, year)
	}
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "load " + string(slot), Year: year, Err: err}
	}

	s, err := DecodeSnapshot([]byte(doc))
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "load " + string(slot), Year: year, Err: err}
	}
	s.Year = year
	return s, nil
}

// Save implements SnapshotStore
func (r *SQLiteRepository) Save(ctx context.Context, slot Slot, year int, s core.YearSnapshot) error {
	if !slot.IsValid() {
		return &core.StorageError{Op: "save", Year: year, Err: fmt.Errorf("unknown slot %q", slot)}
	}
	doc, err := EncodeSnapshot(s)
	if err != nil {
		return &core.StorageError{Op: "save " + string(slot), Year: year, Err: err}
	}

	err = r.queries.UpsertDocument(ctx, UpsertDocumentParams{
		Slot:     string(slot),
		Year:     int64(year),
		Document: string(doc),
	})
	if err != nil {
		return &core.StorageError{Op: "save " + string(slot), Year: year, Err: err}
	}

	slog.DebugContext(ctx, "Year document saved to SQLite", "slot", slot, "year", year, "bytes", len(doc))
	return nil
}

// Years implements SnapshotStore
func (r *SQLiteRepository) Years(ctx context.Context, slot Slot) ([]int, error) {
	rows, err := r.queries.ListYears(ctx, string(slot))
	if err != nil {
		return nil, &core.StorageError{Op: "list " + string(slot), Err: err}
	}
	years := make([]int, len(rows))
	for i, y := range rows {
		years[i] = int(y)
	}
	return years, nil
}

// ActiveYear implements SnapshotStore
func (r *SQLiteRepository) ActiveYear(ctx context.Context) (int, bool, error) {
	v, err := r.queries.GetState(ctx, stateActiveYear)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &core.StorageError{Op: "read active year", Err: err}
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, &core.StorageError{Op: "read active year", Err: fmt.Errorf("parse %q: %w", v, err)}
	}
	return year, true, nil
}

// SetActiveYear implements SnapshotStore
func (r *SQLiteRepository) SetActiveYear(ctx context.Context, year int) error {
	if err := r.queries.SetState(ctx, stateActiveYear, strconv.Itoa(year)); err != nil {
		return &core.StorageError{Op: "write active year", Year: year, Err: err}
	}
	return nil
}

// Reset implements SnapshotStore
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.StorageError{Op: "reset", Err: err}
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteDocuments(ctx); err != nil {
		return &core.StorageError{Op: "reset", Err: fmt.Errorf("delete documents: %w", err)}
	}
	if err := q.DeleteState(ctx); err != nil {
		return &core.StorageError{Op: "reset", Err: fmt.Errorf("delete state: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return &core.StorageError{Op: "reset", Err: err}
	}

	slog.WarnContext(ctx, "All year documents deleted")
	return nil
}
