package journal

import (
	"sort"
	"sync"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

// Entry summarizes one fish species for one player.
type Entry struct {
	FishID    string         `json:"fishId"`
	Name      string         `json:"name"`
	Rarity    fishing.Rarity `json:"rarity"`
	Caught    int            `json:"caught"`
	Escaped   int            `json:"escaped"`
	FirstSeen string         `json:"firstSeen"`
}

// Bestiary is a player's record of every fish they have hooked.
type Bestiary struct {
	mu      sync.RWMutex
	player  string
	entries map[string]*Entry
}

// NewBestiary rebuilds a player's bestiary from the catch log.
func NewBestiary(player string, log []CatchRecord) *Bestiary {
	b := &Bestiary{player: player, entries: make(map[string]*Entry)}
	for _, rec := range log {
		b.Record(rec)
	}
	return b
}

// Record folds one catch record in. Records for other players and records
// without a fish (rejected casts, empty pools) are ignored.
func (b *Bestiary) Record(rec CatchRecord) {
	if rec.Player != b.player || rec.FishID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[rec.FishID]
	if !ok {
		e = &Entry{FishID: rec.FishID, Name: rec.FishName, Rarity: fishing.Rarity(rec.Rarity), FirstSeen: rec.At}
		b.entries[rec.FishID] = e
	}
	if rec.Success {
		e.Caught++
	} else {
		e.Escaped++
	}
}

// Entries lists species from rarest to most common, then by id.
func (b *Bestiary) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Rarity.Rank(), out[j].Rarity.Rank()
		if ri != rj {
			return ri > rj
		}
		return out[i].FishID < out[j].FishID
	})
	return out
}

// Best returns the rarest tier the player has landed, or "" if none.
func (b *Bestiary) Best() fishing.Rarity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var best fishing.Rarity
	for _, e := range b.entries {
		if e.Caught > 0 && e.Rarity.Rank() > best.Rank() {
			best = e.Rarity
		}
	}
	return best
}
