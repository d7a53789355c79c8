package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat/internal/core"
	"zakat/internal/ledger"
	"zakat/internal/log"
	"zakat/internal/storage"
)

// archiveActive copies the active snapshot into the archive under its year.
func (s *Service) archiveActive(ctx context.Context) error {
	if err := s.store.Save(ctx, storage.SlotArchive, s.year, s.active.Clone()); err != nil {
		return fmt.Errorf("archive year %d: %w", s.year, err)
	}
	return nil
}

// activate persists next as the working document of year and makes year the
// active one. Memory is only updated after both writes succeed.
func (s *Service) activate(ctx context.Context, year int, next core.YearSnapshot) error {
	if err := s.store.Save(ctx, storage.SlotWorking, year, next); err != nil {
		return err
	}
	if err := s.store.SetActiveYear(ctx, year); err != nil {
		return err
	}
	s.year = year
	s.active = next
	return nil
}

// AdvanceYear archives the active year and starts year+1 with no records.
// The new year keeps the current settings.
func (s *Service) AdvanceYear(ctx context.Context) (core.YearSnapshot, error) {
	from := s.year
	if err := s.archiveActive(ctx); err != nil {
		return s.Active(), err
	}
	next := core.NewSnapshot(from+1, s.active.Settings)
	if err := s.activate(ctx, from+1, next); err != nil {
		return s.Active(), err
	}

	s.logger.InfoContext(ctx, "Year advanced", log.FieldYear, from, log.FieldTargetYear, s.year)
	s.notify(ctx, core.LedgerEvent{Type: core.EventYearAdvanced, Year: from, TargetYear: s.year})
	return s.Active(), nil
}

// SwitchYear archives the active year and makes target active, starting from
// target's archive, else its working document, else an empty snapshot with
// the current settings. Switching to the active year does nothing.
func (s *Service) SwitchYear(ctx context.Context, target int) (core.YearSnapshot, error) {
	if target == s.year {
		return s.Active(), nil
	}
	from := s.year

	next, source, err := s.resolveTarget(ctx, target)
	if err != nil {
		return s.Active(), err
	}
	if err := s.archiveActive(ctx); err != nil {
		return s.Active(), err
	}
	if err := s.activate(ctx, target, next); err != nil {
		return s.Active(), err
	}

	s.logger.InfoContext(ctx, "Year switched", log.FieldYear, from, log.FieldTargetYear, target, "source", source)
	s.notify(ctx, core.LedgerEvent{Type: core.EventYearSwitched, Year: from, TargetYear: target})
	return s.Active(), nil
}

func (s *Service) resolveTarget(ctx context.Context, target int) (core.YearSnapshot, storage.Slot, error) {
	for _, slot := range []storage.Slot{storage.SlotArchive, storage.SlotWorking} {
		snap, err := s.store.Load(ctx, slot, target)
		if err == nil {
			snap.Year = target
			return snap, slot, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return core.YearSnapshot{}, "", err
		}
	}
	return core.NewSnapshot(target, s.active.Settings), "", nil
}

// RestoreYear archives the active year, then copies the archived content of
// target into it. The active year does not change, so the restored content
// exists under both years afterwards and target's archive is left as is.
// Restoring the active year's own archive leaves the active content unchanged,
// because the archive is rewritten from it first.
func (s *Service) RestoreYear(ctx context.Context, target int) (core.YearSnapshot, error) {
	_, err := s.store.Load(ctx, storage.SlotArchive, target)
	if errors.Is(err, core.ErrNotFound) {
		return s.Active(), &core.NotFoundError{Year: target}
	}
	if err != nil {
		return s.Active(), err
	}
	if err := s.archiveActive(ctx); err != nil {
		return s.Active(), err
	}
	restored, err := s.store.Load(ctx, storage.SlotArchive, target)
	if err != nil {
		return s.Active(), err
	}

	restored.Year = s.year
	if err := s.commit(ctx, restored, core.LedgerEvent{Type: core.EventYearRestored, TargetYear: target}); err != nil {
		return s.Active(), err
	}
	s.logger.InfoContext(ctx, "Archived year restored into active year", log.FieldYear, s.year, log.FieldTargetYear, target)
	return s.Active(), nil
}

// HistoryEntry is the summary of one archived year.
type HistoryEntry struct {
	Year           int             `json:"year"`
	Obligation     decimal.Decimal `json:"obligation"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Remaining      decimal.Decimal `json:"remaining"`
	MemberCount    int             `json:"member_count"`
	RecipientCount int             `json:"recipient_count"`
}

// HistoryError is an archived year that could not be read.
type HistoryError struct {
	Year int
	Err  error
}

func (e HistoryError) Error() string {
	return fmt.Sprintf("year %d: %v", e.Year, e.Err)
}

func (e HistoryError) Unwrap() error { return e.Err }

// ListHistory summarizes every archived year, ascending, computed from the
// archived snapshot alone. Unreadable years are left out of the entries and
// returned in skipped; err is set only when the archive cannot be listed.
func (s *Service) ListHistory(ctx context.Context) (entries []HistoryEntry, skipped []HistoryError, err error) {
	years, err := s.store.Years(ctx, storage.SlotArchive)
	if err != nil {
		return nil, nil, err
	}

	entries = make([]HistoryEntry, 0, len(years))
	for _, year := range years {
		snap, err := s.store.Load(ctx, storage.SlotArchive, year)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping unreadable archived year", log.FieldYear, year, log.FieldError, err)
			skipped = append(skipped, HistoryError{Year: year, Err: err})
			continue
		}
		sum := ledger.ComputeSummary(snap)
		entries = append(entries, HistoryEntry{
			Year:           year,
			Obligation:     sum.TotalObligation,
			TotalPaid:      sum.TotalPaid,
			Remaining:      sum.Remaining,
			MemberCount:    len(snap.Members),
			RecipientCount: len(snap.Recipients),
		})
	}
	return entries, skipped, nil
}
