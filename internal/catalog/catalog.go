package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/xtding233/fishing-backend/internal/encounter"
	"github.com/xtding233/fishing-backend/internal/fishing"
)

var ErrUnknownID = errors.New("unknown id")

// Catalog is the validated, indexed reference data for every zone.
type Catalog struct {
	Version string
	Tuning  encounter.Tuning

	rods  map[string]fishing.Rod
	baits map[string]fishing.Bait
	pools map[string][]fishing.Fish
}

func (c RodCfg) toRod() fishing.Rod {
	r := fishing.Rod{ID: c.ID, Name: c.Name, Luck: c.Luck, Sturdiness: c.Sturdiness}
	if c.ZonePassive != nil {
		r.ZonePassive = &fishing.ZonePassive{Zone: c.ZonePassive.Zone, LuckMultiplier: c.ZonePassive.LuckMultiplier}
	}
	return r
}

func (c BaitCfg) toBait() fishing.Bait {
	return fishing.Bait{ID: c.ID, Name: c.Name, LuckMultiplier: c.LuckMultiplier, Zone: c.Zone}
}

func (c FishCfg) toFish() fishing.Fish {
	return fishing.Fish{
		ID:              c.ID,
		Name:            c.Name,
		Zone:            c.Zone,
		Rarity:          fishing.Rarity(c.Rarity),
		EncounterWeight: c.Weight,
		Minigame: fishing.MinigameTuning{
			CatchTimeSeconds: c.CatchTime,
			EscapeSeconds:    c.Escape,
			TargetWidth:      c.TargetWidth,
			TargetSpeed:      c.TargetSpeed,
			Erraticness:      c.Erraticness,
		},
	}
}

// Apply overlays the configured fields on base.
func (t *TuningCfg) Apply(base encounter.Tuning) encounter.Tuning {
	if t == nil {
		return base
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.CastDelaySeconds, t.CastDelay)
	set(&base.BiteMinSeconds, t.BiteMin)
	set(&base.BiteMaxSeconds, t.BiteMax)
	set(&base.HookSettleSecs, t.HookSettle)
	set(&base.StartProgress, t.StartProgress)
	set(&base.BarWidth, t.BarWidth)
	set(&base.DefaultEscapeSecs, t.DefaultEscape)
	set(&base.DecayGraceSeconds, t.DecayGraceSeconds)
	if t.DecayGrace != nil {
		base.DecayGraceEnabled = *t.DecayGrace
	}
	return base
}

// Build indexes a merged, validated RawCatalog.
func Build(raw RawCatalog) (*Catalog, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	c := &Catalog{
		Version: raw.Version,
		Tuning:  raw.Tuning.Apply(encounter.DefaultTuning()),
		rods:    make(map[string]fishing.Rod, len(raw.Rods)),
		baits:   make(map[string]fishing.Bait, len(raw.Baits)),
		pools:   make(map[string][]fishing.Fish),
	}
	if c.Tuning.BiteMaxSeconds < c.Tuning.BiteMinSeconds {
		return nil, fmt.Errorf("catalog validation failed: bite window [%v, %v] is empty", c.Tuning.BiteMinSeconds, c.Tuning.BiteMaxSeconds)
	}
	for _, r := range raw.Rods {
		c.rods[r.ID] = r.toRod()
	}
	for _, b := range raw.Baits {
		c.baits[b.ID] = b.toBait()
	}
	for _, f := range raw.Fish {
		fish := f.toFish()
		c.pools[fish.Zone] = append(c.pools[fish.Zone], fish)
	}
	return c, nil
}

// Rod looks up a rod by id.
func (c *Catalog) Rod(id string) (fishing.Rod, error) {
	if r, ok := c.rods[id]; ok {
		return r, nil
	}
	return fishing.Rod{}, unknown("rod", id, keys(c.rods))
}

// Bait looks up a bait by id.
func (c *Catalog) Bait(id string) (fishing.Bait, error) {
	if b, ok := c.baits[id]; ok {
		return b, nil
	}
	return fishing.Bait{}, unknown("bait", id, keys(c.baits))
}

// Pool returns a copy of the zone's fish pool.
func (c *Catalog) Pool(zone string) ([]fishing.Fish, error) {
	if p, ok := c.pools[zone]; ok {
		return append([]fishing.Fish(nil), p...), nil
	}
	return nil, unknown("zone", zone, keys(c.pools))
}

// Fish finds a fish by id across all zones.
func (c *Catalog) Fish(id string) (fishing.Fish, bool) {
	for _, p := range c.pools {
		for _, f := range p {
			if f.ID == id {
				return f, true
			}
		}
	}
	return fishing.Fish{}, false
}

// Zones lists zone ids in sorted order.
func (c *Catalog) Zones() []string { return keys(c.pools) }

// Rods lists rod ids in sorted order.
func (c *Catalog) Rods() []string { return keys(c.rods) }

// Baits lists bait ids in sorted order.
func (c *Catalog) Baits() []string { return keys(c.baits) }

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// unknown builds an ErrUnknownID error with the closest known id, if any is
// close enough to be a likely typo.
func unknown(kind, id string, known []string) error {
	if s := suggest(id, known); s != "" {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownID, kind, id, s)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownID, kind, id)
}

func suggest(id string, known []string) string {
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(id, k)
		if d > suggestLimit(len(k)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
