// Package storetest holds the behaviour every storage.SnapshotStore must
// share, as a testify suite each backend runs against itself.
package storetest

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"zakat/internal/core"
	"zakat/internal/storage"
)

type StoreSuite struct {
	suite.Suite

	// NewStore returns an empty store; called before every test.
	NewStore func() storage.SnapshotStore
	// Corrupt plants an undecodable document for slot and year.
	Corrupt func(store storage.SnapshotStore, slot storage.Slot, year int) error

	store storage.SnapshotStore
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func sample(year int) core.YearSnapshot {
	snap := core.DefaultSnapshot(year).
		WithAsset(core.CashHolding{ID: "c1", Holder: "Aisha", Location: "home", Currency: "USD", Amount: decimal.RequireFromString("100.25")}).
		WithAsset(core.GoldHolding{ID: "g1", Owner: "Aisha", Description: "bangles", Weight: decimal.NewFromInt(5), Purity: "24"}).
		WithAsset(core.TradeProperty{ID: "p1", Name: "Shop", Type: "Commercial", Value: decimal.NewFromInt(2000000), ForTrade: true})
	snap.Members = append(snap.Members, core.Member{ID: "m1", Name: "Aisha", NIC: "35202-1234567-1"})
	snap.Recipients = append(snap.Recipients, core.Recipient{ID: "r1", Name: "Zaid", Category: core.CategoryPoor})
	snap.Payments = append(snap.Payments, core.Payment{
		ID: "pay1", RecipientID: "r1", Amount: decimal.NewFromInt(500),
		Method: core.MethodCash, Date: core.NewDate(year, 4, 1), Notes: "ramadan",
	})
	return snap
}

func (s *StoreSuite) equalDocs(want, got core.YearSnapshot) {
	w, err := json.Marshal(want)
	s.Require().NoError(err)
	g, err := json.Marshal(got)
	s.Require().NoError(err)
	s.JSONEq(string(w), string(g))
}

// TestRoundTrip verifies Save followed by Load returns the same snapshot.
func (s *StoreSuite) TestRoundTrip() {
	for _, slot := range []storage.Slot{storage.SlotWorking, storage.SlotArchive} {
		s.Run(string(slot), func() {
			want := sample(2024)
			s.Require().NoError(s.store.Save(s.ctx, slot, 2024, want))

			got, err := s.store.Load(s.ctx, slot, 2024)
			s.Require().NoError(err)
			s.equalDocs(want, got)
		})
	}
}

// TestSaveOverwrites verifies Save is an idempotent full overwrite.
func (s *StoreSuite) TestSaveOverwrites() {
	first := sample(2024)
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2024, first))

	second := core.DefaultSnapshot(2024)
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2024, second))
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2024, second))

	got, err := s.store.Load(s.ctx, storage.SlotWorking, 2024)
	s.Require().NoError(err)
	s.Empty(got.Cash)
	s.equalDocs(second, got)
}

func (s *StoreSuite) TestMissingDocumentIsNotFound() {
	_, err := s.store.Load(s.ctx, storage.SlotArchive, 1999)
	s.Require().ErrorIs(err, core.ErrNotFound)
	s.False(core.IsStorage(err))
}

// TestSlotsAreIndependent verifies working and archive documents never alias.
func (s *StoreSuite) TestSlotsAreIndependent() {
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotArchive, 2023, sample(2023)))
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2023, core.DefaultSnapshot(2023)))

	arch, err := s.store.Load(s.ctx, storage.SlotArchive, 2023)
	s.Require().NoError(err)
	s.Len(arch.Cash, 1)

	work, err := s.store.Load(s.ctx, storage.SlotWorking, 2023)
	s.Require().NoError(err)
	s.Empty(work.Cash)
}

// TestLoadedCopiesAreDetached verifies mutating a loaded snapshot does not
// change what is stored.
func (s *StoreSuite) TestLoadedCopiesAreDetached() {
	snap := sample(2022)
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotArchive, 2022, snap))
	snap.Cash[0].Holder = "changed after save"

	got, err := s.store.Load(s.ctx, storage.SlotArchive, 2022)
	s.Require().NoError(err)
	got.Cash[0].Holder = "changed after load"
	got.Settings.CurrencyRates["USD"] = decimal.NewFromInt(1)

	again, err := s.store.Load(s.ctx, storage.SlotArchive, 2022)
	s.Require().NoError(err)
	s.Equal("Aisha", again.Cash[0].Holder)
	s.True(again.Settings.CurrencyRates["USD"].Equal(decimal.NewFromInt(280)))
}

func (s *StoreSuite) TestYears() {
	for _, y := range []int{2025, 2021, 2023} {
		s.Require().NoError(s.store.Save(s.ctx, storage.SlotArchive, y, core.DefaultSnapshot(y)))
	}
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2030, core.DefaultSnapshot(2030)))

	years, err := s.store.Years(s.ctx, storage.SlotArchive)
	s.Require().NoError(err)
	s.Equal([]int{2021, 2023, 2025}, years)

	years, err = s.store.Years(s.ctx, storage.SlotWorking)
	s.Require().NoError(err)
	s.Equal([]int{2030}, years)
}

func (s *StoreSuite) TestActiveYear() {
	_, ok, err := s.store.ActiveYear(s.ctx)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.SetActiveYear(s.ctx, 2026))
	s.Require().NoError(s.store.SetActiveYear(s.ctx, 2027))

	year, ok, err := s.store.ActiveYear(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2027, year)
}

func (s *StoreSuite) TestReset() {
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotArchive, 2020, sample(2020)))
	s.Require().NoError(s.store.Save(s.ctx, storage.SlotWorking, 2021, sample(2021)))
	s.Require().NoError(s.store.SetActiveYear(s.ctx, 2021))

	s.Require().NoError(s.store.Reset(s.ctx))

	for _, slot := range []storage.Slot{storage.SlotWorking, storage.SlotArchive} {
		years, err := s.store.Years(s.ctx, slot)
		s.Require().NoError(err)
		s.Empty(years)
	}
	_, ok, err := s.store.ActiveYear(s.ctx)
	s.Require().NoError(err)
	s.False(ok)
}

// TestCorruptDocumentIsStorageError verifies undecodable documents surface as
// storage errors, not as missing ones.
func (s *StoreSuite) TestCorruptDocumentIsStorageError() {
	if s.Corrupt == nil {
		s.T().Skip("backend cannot hold undecodable documents")
	}
	s.Require().NoError(s.Corrupt(s.store, storage.SlotArchive, 2019))

	_, err := s.store.Load(s.ctx, storage.SlotArchive, 2019)
	s.Require().Error(err)
	s.True(core.IsStorage(err))
	s.NotErrorIs(err, core.ErrNotFound)

	years, err := s.store.Years(s.ctx, storage.SlotArchive)
	s.Require().NoError(err)
	s.Contains(years, 2019)
}
