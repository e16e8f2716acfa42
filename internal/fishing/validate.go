package fishing

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidStat = errors.New("invalid stat")

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStat, fmt.Sprintf(format, args...))
}

// Validate checks a rod's stats.
func (r Rod) Validate() error {
	if r.Luck <= -100 {
		return invalid("rod %s: luck must be > -100", r.ID)
	}
	if !finite(r.Sturdiness) || r.Sturdiness < 0 || r.Sturdiness > 100 {
		return invalid("rod %s: sturdiness must be in [0,100]", r.ID)
	}
	if r.ZonePassive != nil {
		if r.ZonePassive.Zone == "" {
			return invalid("rod %s: zone passive needs a zone", r.ID)
		}
		if !finite(r.ZonePassive.LuckMultiplier) || r.ZonePassive.LuckMultiplier < 1 {
			return invalid("rod %s: zone passive multiplier must be >= 1", r.ID)
		}
	}
	return nil
}

// Validate checks a bait's stats.
func (b Bait) Validate() error {
	if !finite(b.LuckMultiplier) || b.LuckMultiplier <= 0 {
		return invalid("bait %s: luck multiplier must be > 0", b.ID)
	}
	return nil
}

// Validate checks a fish definition and its minigame tuning.
func (f Fish) Validate() error {
	if f.Zone == "" {
		return invalid("fish %s: zone is required", f.ID)
	}
	if f.Rarity.Rank() < 0 {
		return invalid("fish %s: unknown rarity %q", f.ID, f.Rarity)
	}
	if !finite(f.EncounterWeight) || f.EncounterWeight < 0 {
		return invalid("fish %s: encounter weight must be >= 0", f.ID)
	}
	m := f.Minigame
	if !finite(m.CatchTimeSeconds) || m.CatchTimeSeconds <= 0 {
		return invalid("fish %s: catch time must be > 0", f.ID)
	}
	if !finite(m.EscapeSeconds) || m.EscapeSeconds < 0 {
		return invalid("fish %s: escape seconds must be >= 0", f.ID)
	}
	if !finite(m.TargetWidth) || m.TargetWidth <= 0 || m.TargetWidth >= 1 {
		return invalid("fish %s: target width must be in (0,1)", f.ID)
	}
	if !finite(m.TargetSpeed) || m.TargetSpeed < 0 {
		return invalid("fish %s: target speed must be >= 0", f.ID)
	}
	if !finite(m.Erraticness) || m.Erraticness < 0 || m.Erraticness > 1 {
		return invalid("fish %s: erraticness must be in [0,1]", f.ID)
	}
	return nil
}
