package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for the default and zone files.
type Paths struct {
	BaseDir string // e.g. /opt/fishing/catalog
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) ZonesDir() string {
	return filepath.Join(p.BaseDir, "zones")
}
func (p Paths) ZonePath(zone string) string {
	return filepath.Join(p.ZonesDir(), zone+".yaml")
}

// Loader reads YAML catalogs and merges default → zone.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawCatalog // key: zone, or "$all" for the full merge
}

// NewLoader creates a catalog loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawCatalog),
	}
}

// Paths returns the loader's file layout.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns default.yaml merged with zones/<zone>.yaml. The zone
// file is optional; default.yaml is not.
func (l *Loader) LoadMerged(zone string) (RawCatalog, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[zone]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := l.readDefault()
	if err != nil {
		return RawCatalog{}, err
	}
	zoneCfg, err := l.readZone(zone)
	if err != nil {
		return RawCatalog{}, err
	}
	merged := mergeRaw(defCfg, zoneCfg)

	l.mu.Lock()
	l.cache[zone] = merged
	l.mu.Unlock()
	return merged, nil
}

// Zones lists the zone files present on disk.
func (l *Loader) Zones() ([]string, error) {
	entries, err := os.ReadDir(l.paths.ZonesDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list zones: %w", err)
	}
	var zones []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		zones = append(zones, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(zones)
	return zones, nil
}

// LoadAll merges default.yaml with every zone file.
func (l *Loader) LoadAll() (RawCatalog, error) {
	l.mu.RLock()
	if cfg, ok := l.cache["$all"]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	merged, err := l.readDefault()
	if err != nil {
		return RawCatalog{}, err
	}
	zones, err := l.Zones()
	if err != nil {
		return RawCatalog{}, err
	}
	owner := make(map[string]string)
	for _, z := range zones {
		zoneCfg, err := l.readZone(z)
		if err != nil {
			return RawCatalog{}, err
		}
		// fish ids are global, so a second zone may not redefine one
		for _, f := range zoneCfg.Fish {
			if prev, ok := owner[f.ID]; ok {
				return RawCatalog{}, fmt.Errorf("fish %q defined in zones %s and %s", f.ID, prev, z)
			}
			owner[f.ID] = z
		}
		merged = mergeRaw(merged, zoneCfg)
	}

	l.mu.Lock()
	l.cache["$all"] = merged
	l.mu.Unlock()
	return merged, nil
}

// Load reads, validates and indexes the whole catalog.
func (l *Loader) Load() (*Catalog, error) {
	raw, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return Build(raw)
}

// LoadZone builds a catalog from default.yaml and one zone file only, so a
// broken file for some other zone does not get in the way.
func (l *Loader) LoadZone(zone string) (*Catalog, error) {
	zones, err := l.Zones()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(zones, zone) {
		return nil, unknown("zone", zone, zones)
	}
	raw, err := l.LoadMerged(zone)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}

// Invalidate clears the loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawCatalog)
}

func (l *Loader) readDefault() (RawCatalog, error) {
	if _, err := os.Stat(l.paths.DefaultPath()); err != nil {
		return RawCatalog{}, fmt.Errorf("read default: %w", err)
	}
	cfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawCatalog{}, fmt.Errorf("read default: %w", err)
	}
	return cfg, nil
}

// readZone loads a zone file and stamps its fish with the zone name. Tuning
// is global and may only be set in default.yaml.
func (l *Loader) readZone(zone string) (RawCatalog, error) {
	if zone == "" {
		return RawCatalog{}, nil
	}
	cfg, err := readYAML(l.paths.ZonePath(zone))
	if err != nil {
		return RawCatalog{}, fmt.Errorf("read zone %s: %w", zone, err)
	}
	if cfg.Tuning != nil {
		return RawCatalog{}, fmt.Errorf("read zone %s: tuning is only allowed in default.yaml", zone)
	}
	for i := range cfg.Fish {
		switch cfg.Fish[i].Zone {
		case "":
			cfg.Fish[i].Zone = zone
		case zone:
		default:
			return RawCatalog{}, fmt.Errorf("read zone %s: fish %s declares zone %q", zone, cfg.Fish[i].ID, cfg.Fish[i].Zone)
		}
	}
	return cfg, nil
}

// readYAML loads a YAML file into RawCatalog. Missing files return zero cfg, no error.
func readYAML(path string) (RawCatalog, error) {
	var cfg RawCatalog
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawCatalog{}, nil
		}
		return RawCatalog{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawCatalog{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a: non-empty scalars and set tuning fields in b
// win; rods, baits and fish are merged by id with b replacing a.
func mergeRaw(a, b RawCatalog) RawCatalog {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	switch {
	case out.Tuning == nil && b.Tuning != nil:
		c := *b.Tuning
		out.Tuning = &c
	case out.Tuning != nil && b.Tuning != nil:
		c := *out.Tuning
		overlay := func(dst **float64, v *float64) {
			if v != nil {
				*dst = v
			}
		}
		overlay(&c.CastDelay, b.Tuning.CastDelay)
		overlay(&c.BiteMin, b.Tuning.BiteMin)
		overlay(&c.BiteMax, b.Tuning.BiteMax)
		overlay(&c.HookSettle, b.Tuning.HookSettle)
		overlay(&c.StartProgress, b.Tuning.StartProgress)
		overlay(&c.BarWidth, b.Tuning.BarWidth)
		overlay(&c.DefaultEscape, b.Tuning.DefaultEscape)
		overlay(&c.DecayGraceSeconds, b.Tuning.DecayGraceSeconds)
		if b.Tuning.DecayGrace != nil {
			c.DecayGrace = b.Tuning.DecayGrace
		}
		out.Tuning = &c
	}

	out.Rods = mergeByID(a.Rods, b.Rods, func(r RodCfg) string { return r.ID })
	out.Baits = mergeByID(a.Baits, b.Baits, func(x BaitCfg) string { return x.ID })
	out.Fish = mergeByID(a.Fish, b.Fish, func(f FishCfg) string { return f.ID })
	return out
}

func mergeByID[T any](a, b []T, id func(T) string) []T {
	if len(b) == 0 {
		return append([]T(nil), a...)
	}
	out := append([]T(nil), a...)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[id(v)] = i
	}
	for _, v := range b {
		if i, ok := index[id(v)]; ok {
			out[i] = v
			continue
		}
		index[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}
