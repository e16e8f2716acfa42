package catalog

// RawCatalog is one YAML document: default.yaml or zones/<zone>.yaml.
type RawCatalog struct {
	Version string     `yaml:"version" json:"version,omitempty"`
	Tuning  *TuningCfg `yaml:"tuning,omitempty" json:"tuning,omitempty"`
	Rods    []RodCfg   `yaml:"rods,omitempty" json:"rods,omitempty"`
	Baits   []BaitCfg  `yaml:"baits,omitempty" json:"baits,omitempty"`
	Fish    []FishCfg  `yaml:"fish,omitempty" json:"fish,omitempty"`
	Notes   string     `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// TuningCfg overrides encounter.Tuning; nil fields keep the defaults.
type TuningCfg struct {
	CastDelay         *float64 `yaml:"cast_delay,omitempty" json:"cast_delay,omitempty"`
	BiteMin           *float64 `yaml:"bite_min,omitempty" json:"bite_min,omitempty"`
	BiteMax           *float64 `yaml:"bite_max,omitempty" json:"bite_max,omitempty"`
	HookSettle        *float64 `yaml:"hook_settle,omitempty" json:"hook_settle,omitempty"`
	StartProgress     *float64 `yaml:"start_progress,omitempty" json:"start_progress,omitempty"`
	BarWidth          *float64 `yaml:"bar_width,omitempty" json:"bar_width,omitempty"`
	DefaultEscape     *float64 `yaml:"default_escape,omitempty" json:"default_escape,omitempty"`
	DecayGrace        *bool    `yaml:"decay_grace,omitempty" json:"decay_grace,omitempty"`
	DecayGraceSeconds *float64 `yaml:"decay_grace_seconds,omitempty" json:"decay_grace_seconds,omitempty"`
}

// ZonePassiveCfg is a rod bonus that applies only while fishing one zone.
type ZonePassiveCfg struct {
	Zone           string  `yaml:"zone" json:"zone" jsonschema:"required"`
	LuckMultiplier float64 `yaml:"luck_multiplier" json:"luck_multiplier" jsonschema:"required,minimum=1"`
}

// RodCfg is one rod entry. Luck may exceed 100.
type RodCfg struct {
	ID          string          `yaml:"id" json:"id" jsonschema:"required"`
	Name        string          `yaml:"name" json:"name"`
	Luck        int             `yaml:"luck" json:"luck"`
	Sturdiness  float64         `yaml:"sturdiness" json:"sturdiness" jsonschema:"minimum=0,maximum=100"`
	ZonePassive *ZonePassiveCfg `yaml:"zone_passive,omitempty" json:"zone_passive,omitempty"`
}

// BaitCfg is one bait entry. A non-empty Zone limits where the bait works.
type BaitCfg struct {
	ID             string  `yaml:"id" json:"id" jsonschema:"required"`
	Name           string  `yaml:"name" json:"name"`
	LuckMultiplier float64 `yaml:"luck_multiplier" json:"luck_multiplier" jsonschema:"required"`
	Zone           string  `yaml:"zone,omitempty" json:"zone,omitempty"`
}

// FishCfg is one catchable fish and its reel minigame parameters.
type FishCfg struct {
	ID          string  `yaml:"id" json:"id" jsonschema:"required"`
	Name        string  `yaml:"name" json:"name"`
	Zone        string  `yaml:"zone,omitempty" json:"zone,omitempty"` // defaults to the zone file's name
	Rarity      string  `yaml:"rarity" json:"rarity" jsonschema:"required,enum=common,enum=uncommon,enum=rare,enum=epic,enum=mythic"`
	Weight      float64 `yaml:"weight" json:"weight" jsonschema:"minimum=0"`
	CatchTime   float64 `yaml:"catch_time" json:"catch_time" jsonschema:"required"`
	Escape      float64 `yaml:"escape,omitempty" json:"escape,omitempty"`
	TargetWidth float64 `yaml:"target_width" json:"target_width" jsonschema:"required"`
	TargetSpeed float64 `yaml:"target_speed" json:"target_speed"`
	Erraticness float64 `yaml:"erraticness" json:"erraticness" jsonschema:"minimum=0,maximum=1"`
}
