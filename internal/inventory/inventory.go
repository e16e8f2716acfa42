// Package inventory tracks how much of each bait a player holds.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Stock holds per-bait quantities. The zero value is not usable; call New.
type Stock struct {
	mu  sync.Mutex
	qty map[string]int
}

// New returns a stock seeded with the given quantities. Negative entries are
// dropped.
func New(initial map[string]int) *Stock {
	s := &Stock{qty: make(map[string]int, len(initial))}
	for id, n := range initial {
		if n > 0 {
			s.qty[id] = n
		}
	}
	return s
}

// Add grants n units of a bait.
func (s *Stock) Add(id string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: add %d %s", ErrInvalidAmount, n, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qty[id] += n
	return nil
}

// Quantity returns how many units of a bait are held.
func (s *Stock) Quantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qty[id]
}

// Consume removes one unit and reports whether there was one to remove.
func (s *Stock) Consume(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.qty[id] <= 0 {
		return false
	}
	s.qty[id]--
	if s.qty[id] == 0 {
		delete(s.qty, id)
	}
	return true
}

// Item is one line of a stock listing.
type Item struct {
	BaitID   string `json:"baitId"`
	Quantity int    `json:"quantity"`
}

// Items lists held baits sorted by id.
func (s *Stock) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.qty))
	for id, n := range s.qty {
		out = append(out, Item{BaitID: id, Quantity: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BaitID < out[j].BaitID })
	return out
}
