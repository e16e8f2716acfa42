// Package fishing decides which fish bites: luck from equipment, a capped
// rarity distribution, and a weighted pick inside the rolled tier.
package fishing

import "fmt"

// Rarity is one of the five fixed tiers.
type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
	Epic     Rarity = "epic"
	Mythic   Rarity = "mythic"
)

// RarityOrder is the fixed walk order used by every pick.
var RarityOrder = [...]Rarity{Common, Uncommon, Rare, Epic, Mythic}

// ParseRarity accepts a tier name as written in catalogs.
func ParseRarity(s string) (Rarity, error) {
	for _, r := range RarityOrder {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

// Rank orders tiers from 0 (common) to 4 (mythic); -1 for unknown.
func (r Rarity) Rank() int {
	for i, t := range RarityOrder {
		if t == r {
			return i
		}
	}
	return -1
}

// RarityWeights maps each tier to a weight (raw) or a probability (normalized).
type RarityWeights map[Rarity]float64

// Sum adds the weights of the known tiers.
func (w RarityWeights) Sum() float64 {
	var s float64
	for _, r := range RarityOrder {
		s += w[r]
	}
	return s
}

// ZonePassive is a rod bonus that only applies inside one zone.
type ZonePassive struct {
	Zone           string  `json:"zone"`
	LuckMultiplier float64 `json:"luckMultiplier"`
}

// Rod is immutable reference data for an equipped rod.
type Rod struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Luck        int          `json:"luck"`       // percent, additive
	Sturdiness  float64      `json:"sturdiness"` // 0..100
	ZonePassive *ZonePassive `json:"zonePassive,omitempty"`
}

// Bait is immutable reference data; its quantity lives with the host.
type Bait struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	LuckMultiplier float64 `json:"luckMultiplier"`
	Zone           string  `json:"zone,omitempty"` // empty = works everywhere
}

// MinigameTuning shapes the reel minigame for one fish.
type MinigameTuning struct {
	CatchTimeSeconds float64 `json:"catchTimeSeconds"` // seconds of full overlap to land the fish
	EscapeSeconds    float64 `json:"escapeSeconds"`    // 0 = engine default
	TargetWidth      float64 `json:"targetWidth"`
	TargetSpeed      float64 `json:"targetSpeed"`
	Erraticness      float64 `json:"erraticness"` // 0..1
}

// Fish is one species definition inside a zone pool.
type Fish struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Zone            string         `json:"zone"`
	Rarity          Rarity         `json:"rarity"`
	EncounterWeight float64        `json:"encounterWeight"`
	Minigame        MinigameTuning `json:"minigame"`
}
