package session

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/encounter"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/inventory"
	"github.com/xtding233/fishing-backend/internal/journal"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func constRNG(v float64) fishing.RandomSource {
	return fishing.RandomFunc(func() float64 { return v })
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build(catalog.RawCatalog{
		Rods:  []catalog.RodCfg{{ID: "bamboo", Luck: 25, Sturdiness: 20}},
		Baits: []catalog.BaitCfg{{ID: "worm", LuckMultiplier: 1}},
		Fish: []catalog.FishCfg{
			// wide and still: holding always overlaps
			{ID: "bream", Name: "Bream", Zone: "lake", Rarity: "common", Weight: 1, CatchTime: 1, TargetWidth: 0.9},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestSession(t *testing.T, worms int, j *journal.Journal) *Session {
	t.Helper()
	return New(Config{
		Player:  "ana",
		Catalog: testCatalog(t),
		Stock:   inventory.New(map[string]int{"worm": worms}),
		Journal: j,
		RNG:     constRNG(0),
		Logger:  discardLogger,
		Now:     func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) },
	})
}

var lake = Loadout{RodID: "bamboo", BaitID: "worm", Zone: "lake"}

func tickUntil(t *testing.T, s *Session, want encounter.State, hold bool) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		snap, err := s.Tick(1.0/60, hold)
		if err != nil {
			t.Fatal(err)
		}
		if snap.State == want {
			return
		}
	}
	t.Fatalf("never reached %s, stuck in %s", want, s.Snapshot().State)
}

func TestCatchIsJournaled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catches.csv")
	j, err := journal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, 2, j)

	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Cast()
	if err != nil || snap.State != encounter.StateCasting {
		t.Fatalf("cast: %+v %v", snap, err)
	}
	tickUntil(t, s, encounter.StateResultSuccess, true)
	j.Close()

	if got := s.Stock().Quantity("worm"); got != 1 {
		t.Fatalf("worms left = %d, want 1", got)
	}
	recs, err := journal.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %+v", recs)
	}
	r := recs[0]
	if !r.Success || r.FishID != "bream" || r.Zone != "lake" || r.RodID != "bamboo" || r.At != "2026-10-15T09:00:00Z" {
		t.Fatalf("record = %+v", r)
	}
	if r.Luck != 1.25 {
		t.Fatalf("luck = %v, want 1.25", r.Luck)
	}
	if e := s.Bestiary().Entries(); len(e) != 1 || e[0].Caught != 1 {
		t.Fatalf("bestiary = %+v", e)
	}
}

func TestCastErrors(t *testing.T) {
	s := newTestSession(t, 0, nil)
	if _, err := s.Cast(); !errors.Is(err, ErrNotEquipped) {
		t.Fatalf("want ErrNotEquipped, got %v", err)
	}
	if err := s.Equip(Loadout{RodID: "bambo", BaitID: "worm", Zone: "lake"}); !errors.Is(err, catalog.ErrUnknownID) {
		t.Fatalf("want ErrUnknownID, got %v", err)
	}
	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Cast()
	if !errors.Is(err, ErrNoBait) {
		t.Fatalf("want ErrNoBait, got %v", err)
	}
	if snap.State != encounter.StateReady || snap.FailureReason != encounter.ReasonNoBait {
		t.Fatalf("rejected cast should stay ready with a reason: %+v", snap)
	}
}

func TestControls(t *testing.T) {
	s := newTestSession(t, 3, nil)
	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GiveUp(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("give up while ready: %v", err)
	}
	if _, err := s.Cast(); err != nil {
		t.Fatal(err)
	}
	if err := s.Equip(lake); !errors.Is(err, ErrWrongState) {
		t.Fatalf("equip mid-cast: %v", err)
	}
	if snap, err := s.Cancel(); err != nil || snap.State != encounter.StateReady {
		t.Fatalf("cancel: %+v %v", snap, err)
	}
	if s.Stock().Quantity("worm") != 3 {
		t.Fatal("cancel must not spend bait")
	}

	if _, err := s.Cast(); err != nil {
		t.Fatal(err)
	}
	tickUntil(t, s, encounter.StateMinigame, false)
	snap, err := s.GiveUp()
	if err != nil || snap.State != encounter.StateResultFail || snap.FailureReason != encounter.ReasonGaveUp {
		t.Fatalf("give up: %+v %v", snap, err)
	}
	if e := s.Bestiary().Entries(); len(e) != 1 || e[0].Escaped != 1 {
		t.Fatalf("bestiary = %+v", e)
	}
	if snap, err := s.Retry(); err != nil || snap.State != encounter.StateReady {
		t.Fatalf("retry: %+v %v", snap, err)
	}

	if snap := s.Close(); snap.State != encounter.StateIdle {
		t.Fatalf("close: %+v", snap)
	}
	// casting from idle reopens first
	if snap, err := s.Cast(); err != nil || snap.State != encounter.StateCasting {
		t.Fatalf("cast after close: %+v %v", snap, err)
	}
	if _, err := s.Tick(-1, false); !errors.Is(err, ErrBadTick) {
		t.Fatalf("negative tick: %v", err)
	}
}

func TestManager(t *testing.T) {
	history := []journal.CatchRecord{{Player: "ben", FishID: "bream", Rarity: "common", Success: true}}
	m := NewManager(ManagerConfig{
		Catalog:     testCatalog(t),
		History:     history,
		StarterBait: map[string]int{"worm": 5},
		NewRNG:      func(string) fishing.RandomSource { return constRNG(0) },
		Logger:      discardLogger,
	})
	ben := m.Get("ben")
	if m.Get("ben") != ben {
		t.Fatal("Get must return the same session")
	}
	if ben.Stock().Quantity("worm") != 5 {
		t.Fatal("starter bait not granted")
	}
	if e := ben.Bestiary().Entries(); len(e) != 1 {
		t.Fatalf("bestiary not rebuilt from history: %+v", e)
	}
	if e := m.Get("ana").Bestiary().Entries(); len(e) != 0 {
		t.Fatalf("ana has no history: %+v", e)
	}
	if got := m.Players(); len(got) != 2 || got[0] != "ana" {
		t.Fatalf("players = %v", got)
	}
}

func TestSetCatalogDropsMissingLoadout(t *testing.T) {
	m := NewManager(ManagerConfig{Catalog: testCatalog(t), Logger: discardLogger})
	s := m.Get("ana")
	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}

	next, err := catalog.Build(catalog.RawCatalog{
		Tuning: &catalog.TuningCfg{CastDelay: ptr(1.0)},
		Rods:   []catalog.RodCfg{{ID: "carbon", Sturdiness: 50}},
		Baits:  []catalog.BaitCfg{{ID: "worm", LuckMultiplier: 1}},
		Fish:   []catalog.FishCfg{{ID: "bream", Zone: "lake", Rarity: "common", Weight: 1, CatchTime: 1, TargetWidth: 0.5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	m.SetCatalog(next)
	if m.Catalog() != next {
		t.Fatal("manager catalog not swapped")
	}
	if s.Loadout() != (Loadout{}) {
		t.Fatalf("loadout with a removed rod should be cleared: %+v", s.Loadout())
	}
	if s.Snapshot().State != encounter.StateReady {
		t.Fatalf("rebuilt engine should be ready: %s", s.Snapshot().State)
	}
}

func TestReloadMidEncounterKeepsCastLoadout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catches.csv")
	j, err := journal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, 3, j)
	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Cast(); err != nil {
		t.Fatal(err)
	}

	// bamboo is gone from the reloaded catalog
	next, err := catalog.Build(catalog.RawCatalog{
		Rods:  []catalog.RodCfg{{ID: "carbon", Sturdiness: 50}},
		Baits: []catalog.BaitCfg{{ID: "worm", LuckMultiplier: 1}},
		Fish:  []catalog.FishCfg{{ID: "bream", Zone: "lake", Rarity: "common", Weight: 1, CatchTime: 1, TargetWidth: 0.9}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.SetCatalog(next)
	if s.Loadout() != (Loadout{}) {
		t.Fatalf("loadout should be cleared: %+v", s.Loadout())
	}

	tickUntil(t, s, encounter.StateResultSuccess, true)
	j.Close()
	if got := s.Stock().Quantity("worm"); got != 2 {
		t.Fatalf("worms left = %d, want 2", got)
	}
	recs, err := journal.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].RodID != "bamboo" || recs[0].BaitID != "worm" || recs[0].Zone != "lake" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestReloadKeepsResultScreen(t *testing.T) {
	s := newTestSession(t, 2, nil)
	if err := s.Equip(lake); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Cast(); err != nil {
		t.Fatal(err)
	}
	tickUntil(t, s, encounter.StateResultSuccess, true)

	next, err := catalog.Build(catalog.RawCatalog{
		Tuning: &catalog.TuningCfg{CastDelay: ptr(1.0)},
		Rods:   []catalog.RodCfg{{ID: "bamboo", Luck: 25, Sturdiness: 20}},
		Baits:  []catalog.BaitCfg{{ID: "worm", LuckMultiplier: 1}},
		Fish:   []catalog.FishCfg{{ID: "bream", Zone: "lake", Rarity: "common", Weight: 1, CatchTime: 1, TargetWidth: 0.9}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.SetCatalog(next)
	if st := s.Snapshot().State; st != encounter.StateResultSuccess {
		t.Fatalf("reload should leave the result screen up, state = %s", st)
	}

	snap, err := s.Retry()
	if err != nil || snap.State != encounter.StateReady {
		t.Fatalf("retry: %+v %v", snap, err)
	}
	if _, err := s.Cast(); err != nil {
		t.Fatal(err)
	}
	// 0.5s is past the old 0.28s cast delay but short of the new 1s one
	for i := 0; i < 30; i++ {
		if _, err := s.Tick(1.0/60, false); err != nil {
			t.Fatal(err)
		}
	}
	if st := s.Snapshot().State; st != encounter.StateCasting {
		t.Fatalf("state = %s, want casting under the reloaded tuning", st)
	}
}

func ptr(v float64) *float64 { return &v }
