package catalog

import (
	"fmt"
	"strings"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

// ValidateRaw checks semantic constraints of a merged RawCatalog.
func ValidateRaw(cfg RawCatalog) error {
	var errs []string

	seen := map[string]bool{}
	dup := func(kind, id string) bool {
		key := kind + "/" + id
		if seen[key] {
			errs = append(errs, fmt.Sprintf("%s %q defined twice", kind, id))
			return true
		}
		seen[key] = true
		return false
	}

	// rods
	for i, r := range cfg.Rods {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("rods[%d].id is required", i))
			continue
		}
		if dup("rod", r.ID) {
			continue
		}
		if err := r.toRod().Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	// baits
	for i, b := range cfg.Baits {
		if b.ID == "" {
			errs = append(errs, fmt.Sprintf("baits[%d].id is required", i))
			continue
		}
		if dup("bait", b.ID) {
			continue
		}
		if err := b.toBait().Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	// fish
	for i, f := range cfg.Fish {
		if f.ID == "" {
			errs = append(errs, fmt.Sprintf("fish[%d].id is required", i))
			continue
		}
		if dup("fish", f.ID) {
			continue
		}
		if _, err := fishing.ParseRarity(f.Rarity); err != nil {
			errs = append(errs, fmt.Sprintf("fish %s: %v", f.ID, err))
			continue
		}
		if err := f.toFish().Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	// tuning
	if t := cfg.Tuning; t != nil {
		// the engine treats a zero as "use the default", so zero is rejected
		positive := func(name string, v *float64) {
			if v != nil && *v <= 0 {
				errs = append(errs, fmt.Sprintf("tuning.%s must be > 0", name))
			}
		}
		positive("cast_delay", t.CastDelay)
		positive("bite_min", t.BiteMin)
		positive("hook_settle", t.HookSettle)
		positive("decay_grace_seconds", t.DecayGraceSeconds)
		if t.BiteMin != nil && t.BiteMax != nil && *t.BiteMax < *t.BiteMin {
			errs = append(errs, "tuning.bite_max must be >= bite_min")
		}
		if t.StartProgress != nil && (*t.StartProgress <= 0 || *t.StartProgress >= 1) {
			errs = append(errs, "tuning.start_progress must be in (0,1)")
		}
		if t.BarWidth != nil && (*t.BarWidth <= 0 || *t.BarWidth >= 1) {
			errs = append(errs, "tuning.bar_width must be in (0,1)")
		}
		positive("default_escape", t.DefaultEscape)
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
