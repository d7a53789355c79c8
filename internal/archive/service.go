// Package archive owns the active zakat year. It applies every mutation to a
// copy of the active snapshot, writes it through to storage and only then
// makes it current, so a failed write never changes what callers see.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zakat/internal/core"
	"zakat/internal/ledger"
	"zakat/internal/log"
	"zakat/internal/storage"
	"zakat/internal/valuation"
)

// Notifier receives an event after each persisted change. Failures are
// logged and never fail the change itself.
type Notifier interface {
	Notify(ctx context.Context, e core.LedgerEvent) error
}

type Options struct {
	// DefaultYear is used when the store has no active-year marker.
	// Zero means the current calendar year.
	DefaultYear int
	Logger      *log.Logger
	Notifier    Notifier
}

type Service struct {
	store    storage.SnapshotStore
	logger   *log.Logger
	notifier Notifier

	year   int
	active core.YearSnapshot
}

// Open resolves the active year and loads its snapshot.
func Open(ctx context.Context, store storage.SnapshotStore, opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	s := &Service{
		store:    store,
		logger:   logger.WithComponent(log.ComponentArchive),
		notifier: opts.Notifier,
	}

	year, ok, err := store.ActiveYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active year: %w", err)
	}
	if !ok {
		year = opts.DefaultYear
		if year == 0 {
			year = time.Now().Year()
		}
		if err := store.SetActiveYear(ctx, year); err != nil {
			return nil, fmt.Errorf("record active year: %w", err)
		}
	}

	snap, err := s.LoadYear(ctx, year)
	if err != nil {
		return nil, err
	}
	s.year = year
	s.active = snap

	s.logger.InfoContext(ctx, "Active year opened", log.FieldYear, year, "from_marker", ok)
	return s, nil
}

// ActiveYear is the year of the snapshot being edited.
func (s *Service) ActiveYear() int {
	return s.year
}

// Active returns a copy of the active snapshot.
func (s *Service) Active() core.YearSnapshot {
	return s.active.Clone()
}

// LoadYear returns the working snapshot for year, or a fresh default one when
// nothing was saved for it yet.
func (s *Service) LoadYear(ctx context.Context, year int) (core.YearSnapshot, error) {
	snap, err := s.store.Load(ctx, storage.SlotWorking, year)
	if errors.Is(err, core.ErrNotFound) {
		s.logger.DebugContext(ctx, "No saved snapshot, using defaults", log.FieldYear, year)
		return core.DefaultSnapshot(year), nil
	}
	if err != nil {
		return core.YearSnapshot{}, err
	}
	return snap, nil
}

// SaveYear overwrites the working snapshot for year after checking the whole
// snapshot. Saving the active year also replaces the active snapshot.
func (s *Service) SaveYear(ctx context.Context, year int, snap core.YearSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	next := snap.Clone()
	next.Year = year
	if err := s.store.Save(ctx, storage.SlotWorking, year, next); err != nil {
		return err
	}
	if year == s.year {
		s.active = next
	}
	s.logger.InfoContext(ctx, "Year saved", log.FieldYear, year)
	s.notify(ctx, core.LedgerEvent{Type: core.EventYearSaved, Year: year})
	return nil
}

// commit writes next as the active working document and makes it current.
func (s *Service) commit(ctx context.Context, next core.YearSnapshot, e core.LedgerEvent) error {
	if err := s.store.Save(ctx, storage.SlotWorking, s.year, next); err != nil {
		return err
	}
	s.active = next
	e.Year = s.year
	s.notify(ctx, e)
	return nil
}

func (s *Service) notify(ctx context.Context, e core.LedgerEvent) {
	if s.notifier == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Ledger event not published",
			log.FieldEvent, e.Type, log.FieldYear, e.Year, log.FieldError, err)
	}
}

func (s *Service) newID(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	if s.active.HasID(id) {
		return "", &core.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q", id)}
	}
	return id, nil
}

// AddAsset validates a, assigns an id when it has none and appends it to the
// active snapshot.
func (s *Service) AddAsset(ctx context.Context, a core.Asset) (core.Asset, core.YearSnapshot, error) {
	if a == nil {
		return nil, s.Active(), &core.ValidationError{Field: "asset", Reason: "missing asset"}
	}
	if err := a.Validate(); err != nil {
		return nil, s.Active(), err
	}
	id, err := s.newID(a.AssetID())
	if err != nil {
		return nil, s.Active(), err
	}
	a = withAssetID(a, id)

	if g, ok := a.(core.GoldHolding); ok {
		if _, recognized := valuation.ResolvePurity(g.Purity); !recognized {
			s.logger.WarnContext(ctx, "Unrecognized gold purity valued at 18k",
				log.FieldPurity, g.Purity, log.FieldRecordID, id)
		}
	}

	next := s.active.WithAsset(a)
	if err := s.commit(ctx, next, core.LedgerEvent{Type: core.EventRecordAdded, RecordKind: string(a.Kind()), RecordID: id}); err != nil {
		return nil, s.Active(), err
	}
	s.logger.InfoContext(ctx, "Asset added", log.NewFields().WithRecord(string(a.Kind()), id).WithYear(s.year).ToSlice()...)
	return a, s.Active(), nil
}

func withAssetID(a core.Asset, id string) core.Asset {
	switch v := a.(type) {
	case core.CashHolding:
		v.ID = id
		return v
	case core.BankAccount:
		v.ID = id
		if v.AccountType == "" {
			v.AccountType = core.AccountSavings
		}
		return v
	case core.Receivable:
		v.ID = id
		return v
	case core.GoldHolding:
		v.ID = id
		return v
	case core.TradeProperty:
		v.ID = id
		return v
	default:
		panic(fmt.Sprintf("archive: unhandled asset type %T", a))
	}
}

func (s *Service) AddMember(ctx context.Context, m core.Member) (core.Member, core.YearSnapshot, error) {
	if err := m.Validate(); err != nil {
		return core.Member{}, s.Active(), err
	}
	id, err := s.newID(m.ID)
	if err != nil {
		return core.Member{}, s.Active(), err
	}
	m.ID = id

	next := s.active.Clone()
	next.Members = append(next.Members, m)
	if err := s.commit(ctx, next, core.LedgerEvent{Type: core.EventRecordAdded, RecordKind: "member", RecordID: id}); err != nil {
		return core.Member{}, s.Active(), err
	}
	s.logger.InfoContext(ctx, "Member added", log.NewFields().WithRecord("member", id).WithYear(s.year).ToSlice()...)
	return m, s.Active(), nil
}

func (s *Service) AddRecipient(ctx context.Context, r core.Recipient) (core.Recipient, core.YearSnapshot, error) {
	if err := r.Validate(); err != nil {
		return core.Recipient{}, s.Active(), err
	}
	id, err := s.newID(r.ID)
	if err != nil {
		return core.Recipient{}, s.Active(), err
	}
	r.ID = id

	next := s.active.Clone()
	next.Recipients = append(next.Recipients, r)
	if err := s.commit(ctx, next, core.LedgerEvent{Type: core.EventRecordAdded, RecordKind: "recipient", RecordID: id}); err != nil {
		return core.Recipient{}, s.Active(), err
	}
	s.logger.InfoContext(ctx, "Recipient added", log.NewFields().WithRecord("recipient", id).WithYear(s.year).ToSlice()...)
	return r, s.Active(), nil
}

// AddPayment records a disbursement against the active snapshot. Payments
// above the remaining balance are rejected and nothing is written.
func (s *Service) AddPayment(ctx context.Context, in ledger.PaymentInput) (core.Payment, core.YearSnapshot, error) {
	p, next, err := ledger.RecordPayment(s.active, in)
	if err != nil {
		return core.Payment{}, s.Active(), err
	}

	remaining := ledger.RemainingBalance(next)
	amount := p.Amount
	e := core.LedgerEvent{
		Type:       core.EventPaymentRecorded,
		RecordKind: "payment",
		RecordID:   p.ID,
		Amount:     &amount,
		Remaining:  &remaining,
	}
	if err := s.commit(ctx, next, e); err != nil {
		return core.Payment{}, s.Active(), err
	}
	s.logger.InfoContext(ctx, "Payment recorded",
		log.NewFields().WithPayment(p.RecipientID, p.Amount, remaining).WithYear(s.year).ToSlice()...)
	return p, s.Active(), nil
}

// UpdateSettings replaces the settings of the active snapshot.
func (s *Service) UpdateSettings(ctx context.Context, settings core.Settings) (core.YearSnapshot, error) {
	if err := settings.Validate(); err != nil {
		return s.Active(), err
	}
	next := s.active.Clone()
	next.Settings = settings.Clone()
	if err := s.commit(ctx, next, core.LedgerEvent{Type: core.EventSettingsUpdated}); err != nil {
		return s.Active(), err
	}
	s.logger.InfoContext(ctx, "Settings updated", log.FieldYear, s.year)
	return s.Active(), nil
}

// Summary computes the dashboard figures for the active snapshot.
func (s *Service) Summary(ctx context.Context) ledger.Summary {
	sum := ComputeSummary(s.active)
	if len(sum.Gold.FallbackPurities) > 0 {
		s.logger.WarnContext(ctx, "Gold valued at 18k for unrecognized purities",
			log.FieldYear, s.year, log.FieldPurity, sum.Gold.FallbackPurities)
	}
	return sum
}

// ComputeSummary computes the dashboard figures for any snapshot.
func ComputeSummary(snap core.YearSnapshot) ledger.Summary {
	return ledger.ComputeSummary(snap)
}
