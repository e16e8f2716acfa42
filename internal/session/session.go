// Package session glues one player's encounter engine to the catalog, their
// bait stock, the catch journal and their bestiary.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/encounter"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/inventory"
	"github.com/xtding233/fishing-backend/internal/journal"
)

var (
	ErrNotEquipped = errors.New("no rod, bait or zone equipped")
	ErrWrongState  = errors.New("not allowed in the current state")
	ErrNoBait      = errors.New(encounter.ReasonNoBait)
	ErrBadTick     = errors.New("tick must be a finite, non-negative duration")
)

// Loadout is what the player has equipped.
type Loadout struct {
	RodID  string `json:"rodId"`
	BaitID string `json:"baitId"`
	Zone   string `json:"zone"`
}

// Config wires a Session. Journal and Bestiary may be nil.
type Config struct {
	Player   string
	Catalog  *catalog.Catalog
	Stock    *inventory.Stock
	Journal  *journal.Journal
	Bestiary *journal.Bestiary
	RNG      fishing.RandomSource
	Logger   *slog.Logger
	Now      func() time.Time
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	player   string
	cat      *catalog.Catalog
	stock    *inventory.Stock
	journal  *journal.Journal
	bestiary *journal.Bestiary
	rng      fishing.RandomSource
	log      *slog.Logger
	now      func() time.Time

	engine  *encounter.Engine
	stale   bool // catalog changed since the engine was built
	loadout Loadout
	rod     fishing.Rod
	bait    fishing.Bait
	// cast is the loadout of the encounter in flight. A reload may clear
	// loadout mid-encounter; bait and journal entries follow the cast.
	cast Loadout
}

// New creates a session whose engine is already open (ready to cast).
func New(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Stock == nil {
		cfg.Stock = inventory.New(nil)
	}
	if cfg.Bestiary == nil {
		cfg.Bestiary = journal.NewBestiary(cfg.Player, nil)
	}
	s := &Session{
		player:   cfg.Player,
		cat:      cfg.Catalog,
		stock:    cfg.Stock,
		journal:  cfg.Journal,
		bestiary: cfg.Bestiary,
		rng:      cfg.RNG,
		log:      cfg.Logger.With("player", cfg.Player),
		now:      cfg.Now,
	}
	s.engine = s.newEngine()
	s.engine.Open()
	return s
}

func (s *Session) newEngine() *encounter.Engine {
	return encounter.NewEngine(encounter.Callbacks{
		ConsumeBait: func() bool { return s.stock.Consume(s.cast.BaitID) },
		Outcome:     s.record,
	}, encounter.Options{
		Tuning: s.cat.Tuning,
		RNG:    s.rng,
		Logger: s.log,
	})
}

// record runs inside engine callbacks, with s.mu already held.
func (s *Session) record(o encounter.Outcome) {
	rec := journal.CatchRecord{
		Player:  s.player,
		Zone:    s.cast.Zone,
		RodID:   s.cast.RodID,
		BaitID:  s.cast.BaitID,
		Success: o.Success,
		Reason:  o.Reason,
		Luck:    s.engine.Snapshot().LuckMultiplier,
	}
	rec.Stamp(s.now())
	if o.Fish != nil {
		rec.FishID = o.Fish.ID
		rec.FishName = o.Fish.Name
		rec.Rarity = string(o.Fish.Rarity)
	}
	s.bestiary.Record(rec)
	if err := s.journal.Append(rec); err != nil {
		s.log.Error("journal append failed", "err", err)
	}
}

// Player returns the session's player id.
func (s *Session) Player() string { return s.player }

// Stock returns the player's bait stock.
func (s *Session) Stock() *inventory.Stock { return s.stock }

// Bestiary returns the player's bestiary.
func (s *Session) Bestiary() *journal.Bestiary { return s.bestiary }

// Loadout returns the current equipment.
func (s *Session) Loadout() Loadout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadout
}

// refreshEngine swaps a stale engine for one built from the current catalog,
// but only once it is idle or ready. Result screens stay up until the
// player leaves them.
func (s *Session) refreshEngine() {
	if !s.stale {
		return
	}
	st := s.engine.State()
	if st != encounter.StateIdle && st != encounter.StateReady {
		return
	}
	s.engine = s.newEngine()
	if st == encounter.StateReady {
		s.engine.Open()
	}
	s.stale = false
}

// between reports whether no encounter is in flight.
func (s *Session) between() bool {
	switch s.engine.State() {
	case encounter.StateIdle, encounter.StateReady, encounter.StateResultSuccess, encounter.StateResultFail:
		return true
	}
	return false
}

// Equip resolves the loadout against the catalog. Not allowed mid-encounter.
func (s *Session) Equip(l Loadout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.between() {
		return fmt.Errorf("equip: %w", ErrWrongState)
	}
	rod, err := s.cat.Rod(l.RodID)
	if err != nil {
		return err
	}
	bait, err := s.cat.Bait(l.BaitID)
	if err != nil {
		return err
	}
	if _, err := s.cat.Pool(l.Zone); err != nil {
		return err
	}
	s.rod, s.bait, s.loadout = rod, bait, l
	return nil
}

// Cast starts an encounter with the equipped loadout, opening the engine
// first if it was closed.
func (s *Session) Cast() (encounter.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadout == (Loadout{}) {
		return s.engine.Snapshot(), ErrNotEquipped
	}
	s.engine.Open()
	if s.engine.State() != encounter.StateReady {
		return s.engine.Snapshot(), fmt.Errorf("cast: %w", ErrWrongState)
	}
	pool, err := s.cat.Pool(s.loadout.Zone)
	if err != nil {
		return s.engine.Snapshot(), err
	}
	s.cast = s.loadout
	if !s.engine.StartCast(s.rod, s.bait, pool, s.stock.Quantity(s.bait.ID), s.loadout.Zone) {
		return s.engine.Snapshot(), ErrNoBait
	}
	return s.engine.Snapshot(), nil
}

// Tick advances the encounter by dt seconds.
func (s *Session) Tick(dt float64, hold bool) (encounter.Snapshot, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return encounter.Snapshot{}, ErrBadTick
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Update(dt, hold)
	return s.engine.Snapshot(), nil
}

func (s *Session) control(name string, op func() bool) (encounter.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !op() {
		return s.engine.Snapshot(), fmt.Errorf("%s: %w", name, ErrWrongState)
	}
	s.refreshEngine()
	return s.engine.Snapshot(), nil
}

// Cancel abandons a cast that has not been bitten yet.
func (s *Session) Cancel() (encounter.Snapshot, error) {
	return s.control("cancel", func() bool { return s.engine.CancelWaiting() })
}

// GiveUp abandons the reel minigame.
func (s *Session) GiveUp() (encounter.Snapshot, error) {
	return s.control("give up", func() bool { return s.engine.GiveUpMinigame() })
}

// Retry returns from a result screen to ready.
func (s *Session) Retry() (encounter.Snapshot, error) {
	return s.control("retry", func() bool { return s.engine.Retry() })
}

// Close drops the encounter and returns the engine to idle.
func (s *Session) Close() encounter.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.CloseToIdle()
	s.refreshEngine()
	return s.engine.Snapshot()
}

// Snapshot returns the engine's current view.
func (s *Session) Snapshot() encounter.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// SetCatalog swaps in a reloaded catalog. The equipped items are re-resolved;
// if one vanished the loadout is cleared. The engine picks up the new tuning
// at once when idle or ready, otherwise after the encounter and its result
// screen are over. An encounter in flight finishes with the rod and bait it
// was cast with.
func (s *Session) SetCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = c
	if s.loadout != (Loadout{}) {
		rod, errR := c.Rod(s.loadout.RodID)
		bait, errB := c.Bait(s.loadout.BaitID)
		_, errZ := c.Pool(s.loadout.Zone)
		if err := errors.Join(errR, errB, errZ); err != nil {
			s.log.Warn("loadout dropped after catalog reload", "err", err)
			s.loadout, s.rod, s.bait = Loadout{}, fishing.Rod{}, fishing.Bait{}
		} else {
			s.rod, s.bait = rod, bait
		}
	}
	s.stale = true
	s.refreshEngine()
}
