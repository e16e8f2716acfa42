package fishing

import (
	"errors"
	"math"

	"github.com/xtding233/fishing-backend/internal/minigame"
)

// MythicCap is the hard ceiling on the normalized mythic probability.
const MythicCap = 0.10

// maxCapPasses bounds the clip-and-redistribute loop.
const maxCapPasses = 3

var ErrEmptyPool = errors.New("fish pool is empty")

// BaseRarityWeights are the unscaled tier weights before luck.
func BaseRarityWeights() RarityWeights {
	return RarityWeights{
		Common:   55,
		Uncommon: 25,
		Rare:     12,
		Epic:     6,
		Mythic:   2,
	}
}

// luckScaled marks the tiers that luck pulls weight toward.
var luckScaled = map[Rarity]bool{Rare: true, Epic: true, Mythic: true}

// ComputeZoneBonusFactor returns the rod's zone passive multiplier while the
// player is in that zone, otherwise 1. Never below 1.
func ComputeZoneBonusFactor(rod Rod, zone string) float64 {
	if rod.ZonePassive == nil || rod.ZonePassive.Zone == "" || rod.ZonePassive.Zone != zone {
		return 1
	}
	return math.Max(1, rod.ZonePassive.LuckMultiplier)
}

// baitFactor is the bait's multiplier, neutral outside its zone.
func baitFactor(bait Bait, zone string) float64 {
	if bait.Zone != "" && bait.Zone != zone {
		return 1
	}
	if !(bait.LuckMultiplier > 0) || math.IsInf(bait.LuckMultiplier, 0) {
		return 1
	}
	return bait.LuckMultiplier
}

// ComputeLuckMultiplier combines bait, rod luck and zone bonus:
// baitFactor * (1 + luck/100) * max(1, zoneBonus).
func ComputeLuckMultiplier(rod Rod, bait Bait, zoneBonusFactor float64, zone string) float64 {
	rodFactor := 1 + float64(rod.Luck)/100
	if rodFactor < 0 {
		rodFactor = 0
	}
	return baitFactor(bait, zone) * rodFactor * math.Max(1, zoneBonusFactor)
}

// ComputeRarityDistribution scales the base table by luck (rare, epic and
// mythic only) and returns the normalized, mythic-capped probabilities.
func ComputeRarityDistribution(luckMultiplier float64) RarityWeights {
	if math.IsNaN(luckMultiplier) || luckMultiplier < 0 {
		luckMultiplier = 0
	}
	if math.IsInf(luckMultiplier, 1) {
		luckMultiplier = math.MaxFloat64 / 1e3
	}
	raw := BaseRarityWeights()
	for r := range raw {
		if luckScaled[r] {
			raw[r] *= luckMultiplier
		}
	}
	return NormalizeRarityWeights(raw)
}

// NormalizeRarityWeights turns any raw table into probabilities that sum to
// 1 with mythic capped at MythicCap. Negative or NaN weights count as 0; an
// all-zero table resolves to pure common.
func NormalizeRarityWeights(raw RarityWeights) RarityWeights {
	p := make(RarityWeights, len(RarityOrder))
	var total float64
	for _, r := range RarityOrder {
		w := raw[r]
		if !(w > 0) || math.IsInf(w, 0) {
			w = 0
		}
		p[r] = w
		total += w
	}
	if total <= 0 {
		for _, r := range RarityOrder {
			p[r] = 0
		}
		p[Common] = 1
		return p
	}
	for _, r := range RarityOrder {
		p[r] /= total
	}

	for pass := 0; pass < maxCapPasses; pass++ {
		excess := p[Mythic] - MythicCap
		if excess <= 0 {
			break
		}
		p[Mythic] = MythicCap
		var rest float64
		for _, r := range RarityOrder[:len(RarityOrder)-1] {
			rest += p[r]
		}
		others := RarityOrder[:len(RarityOrder)-1]
		for _, r := range others {
			if rest > 0 {
				p[r] += excess * p[r] / rest
			} else {
				p[r] += excess / float64(len(others))
			}
		}
	}

	sum := p.Sum()
	for _, r := range RarityOrder {
		p[r] = minigame.Clamp(p[r]/sum, 0, 1)
	}
	return p
}

// PickRarity walks tiers in fixed order and returns the first whose
// cumulative weight reaches the roll. Zero-weight tiers are never chosen.
func PickRarity(weights RarityWeights, rng RandomSource) Rarity {
	x := roll(rng)
	var cum float64
	for _, r := range RarityOrder {
		w := weights[r]
		if !(w > 0) {
			continue
		}
		cum += w
		if cum >= x {
			return r
		}
	}
	return Common
}

// PickFishByRarity samples a fish of the given tier weighted by
// EncounterWeight. With no fish of that tier it falls back to pool[0].
func PickFishByRarity(pool []Fish, rarity Rarity, rng RandomSource) (Fish, error) {
	if len(pool) == 0 {
		return Fish{}, ErrEmptyPool
	}
	var candidates []Fish
	var total float64
	for _, f := range pool {
		if f.Rarity != rarity {
			continue
		}
		candidates = append(candidates, f)
		if f.EncounterWeight > 0 {
			total += f.EncounterWeight
		}
	}
	if len(candidates) == 0 {
		return pool[0], nil
	}
	if total <= 0 || math.IsInf(total, 0) {
		idx := int(roll(rng) * float64(len(candidates)))
		if idx >= len(candidates) {
			idx = len(candidates) - 1
		}
		return candidates[idx], nil
	}
	x := roll(rng) * total
	var cum float64
	for _, f := range candidates {
		if !(f.EncounterWeight > 0) {
			continue
		}
		cum += f.EncounterWeight
		if cum >= x {
			return f, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

// RollInput is everything a roll needs from the current cast.
type RollInput struct {
	Rod  Rod
	Bait Bait
	Pool []Fish
	Zone string
}

// RollResult reports the chosen fish and the odds it was drawn from.
type RollResult struct {
	Fish           Fish          `json:"fish"`
	Rarity         Rarity        `json:"rarity"`
	LuckMultiplier float64       `json:"luckMultiplier"`
	ZoneBonus      float64       `json:"zoneBonus"`
	Distribution   RarityWeights `json:"distribution"`
}

// Odds computes the luck multiplier and distribution without rolling.
func Odds(rod Rod, bait Bait, zone string) (luck, zoneBonus float64, dist RarityWeights) {
	zoneBonus = ComputeZoneBonusFactor(rod, zone)
	luck = ComputeLuckMultiplier(rod, bait, zoneBonus, zone)
	return luck, zoneBonus, ComputeRarityDistribution(luck)
}

// RollFish picks a rarity, then a fish of that rarity from the pool.
func RollFish(in RollInput, rng RandomSource) (RollResult, error) {
	if len(in.Pool) == 0 {
		return RollResult{}, ErrEmptyPool
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	luck, zoneBonus, dist := Odds(in.Rod, in.Bait, in.Zone)
	rarity := PickRarity(dist, rng)
	fish, err := PickFishByRarity(in.Pool, rarity, rng)
	if err != nil {
		return RollResult{}, err
	}
	return RollResult{
		Fish:           fish,
		Rarity:         rarity,
		LuckMultiplier: luck,
		ZoneBonus:      zoneBonus,
		Distribution:   dist,
	}, nil
}
