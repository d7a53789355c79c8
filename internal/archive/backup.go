package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"zakat/internal/core"
	"zakat/internal/log"
	"zakat/internal/storage"
)

// ExportBackup writes snap as a standalone document at destination. The file
// is not tracked by the store; ImportBackup reads it back.
func (s *Service) ExportBackup(ctx context.Context, snap core.YearSnapshot, destination string) error {
	data, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return &core.StorageError{Op: "backup", Year: snap.Year, Err: err}
	}
	if dir := filepath.Dir(destination); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &core.StorageError{Op: "backup", Year: snap.Year, Err: err}
		}
	}
	if err := os.WriteFile(destination, data, 0644); err != nil {
		return &core.StorageError{Op: "backup", Year: snap.Year, Err: err}
	}
	s.logger.InfoContext(ctx, "Backup written", log.FieldYear, snap.Year, log.FieldPath, destination)
	return nil
}

// ImportBackup reads a document written by ExportBackup. The snapshot is
// returned to the caller, who decides which year to SaveYear it under.
func (s *Service) ImportBackup(ctx context.Context, path string) (core.YearSnapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.YearSnapshot{}, &core.ValidationError{Field: "path", Reason: fmt.Sprintf("backup %s does not exist", path)}
	}
	if err != nil {
		return core.YearSnapshot{}, &core.StorageError{Op: "import", Err: err}
	}
	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return core.YearSnapshot{}, &core.ValidationError{Field: "backup", Reason: err.Error()}
	}
	if err := snap.Validate(); err != nil {
		return core.YearSnapshot{}, fmt.Errorf("backup %s: %w", path, err)
	}
	s.logger.InfoContext(ctx, "Backup read", log.FieldYear, snap.Year, log.FieldPath, path)
	return snap, nil
}

// Reset deletes every working and archived document, then starts the active
// year again from defaults.
func (s *Service) Reset(ctx context.Context) (core.YearSnapshot, error) {
	if err := s.store.Reset(ctx); err != nil {
		return s.Active(), err
	}
	if err := s.activate(ctx, s.year, core.DefaultSnapshot(s.year)); err != nil {
		return s.Active(), err
	}
	s.logger.WarnContext(ctx, "All ledger data reset", log.FieldYear, s.year)
	s.notify(ctx, core.LedgerEvent{Type: core.EventReset, Year: s.year})
	return s.Active(), nil
}
