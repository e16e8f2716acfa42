package session

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/inventory"
	"github.com/xtding233/fishing-backend/internal/journal"
)

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Catalog *catalog.Catalog
	Journal *journal.Journal
	// History is the catch log read at start-up; bestiaries are rebuilt from it.
	History []journal.CatchRecord
	// StarterBait is granted to every new player.
	StarterBait map[string]int
	// NewRNG gives each session its own source. Nil uses crypto randomness.
	NewRNG func(player string) fishing.RandomSource
	Logger *slog.Logger
}

// Manager owns one Session per player.
type Manager struct {
	cfg ManagerConfig

	mu       sync.RWMutex
	cat      *catalog.Catalog
	sessions map[string]*Session
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{cfg: cfg, cat: cfg.Catalog, sessions: make(map[string]*Session)}
}

// Get returns the player's session, creating it on first use.
func (m *Manager) Get(player string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[player]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[player]; ok {
		return s
	}
	var rng fishing.RandomSource
	if m.cfg.NewRNG != nil {
		rng = m.cfg.NewRNG(player)
	}
	s = New(Config{
		Player:   player,
		Catalog:  m.cat,
		Stock:    inventory.New(m.cfg.StarterBait),
		Journal:  m.cfg.Journal,
		Bestiary: journal.NewBestiary(player, m.cfg.History),
		RNG:      rng,
		Logger:   m.cfg.Logger,
	})
	m.sessions[player] = s
	m.cfg.Logger.Info("session created", "player", player)
	return s
}

// Catalog returns the catalog new casts are resolved against.
func (m *Manager) Catalog() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cat
}

// SetCatalog swaps the catalog for every current and future session.
func (m *Manager) SetCatalog(c *catalog.Catalog) {
	m.mu.Lock()
	m.cat = c
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.SetCatalog(c)
	}
}

// Players lists players with a live session.
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for p := range m.sessions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
