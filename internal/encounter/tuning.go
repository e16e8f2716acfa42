package encounter

// Tuning holds the engine's timing and minigame physics constants.
type Tuning struct {
	CastDelaySeconds float64 `json:"castDelaySeconds"`
	BiteMinSeconds   float64 `json:"biteMinSeconds"`
	BiteMaxSeconds   float64 `json:"biteMaxSeconds"`
	HookSettleSecs   float64 `json:"hookSettleSeconds"`

	// minigame start
	StartProgress     float64 `json:"startProgress"`
	TargetStart       float64 `json:"targetStart"`
	BarWidth          float64 `json:"barWidth"`
	DefaultEscapeSecs float64 `json:"defaultEscapeSeconds"`
	DecayGraceEnabled bool    `json:"decayGraceEnabled"`
	DecayGraceSeconds float64 `json:"decayGraceSeconds"`

	// player bar
	BarLiftAccel float64 `json:"barLiftAccel"` // per s^2 while held
	BarFallAccel float64 `json:"barFallAccel"` // per s^2 while released
	BarDamping   float64 `json:"barDamping"`   // velocity kept per 1/60 s
	BarMaxUp     float64 `json:"barMaxUp"`
	BarMaxDown   float64 `json:"barMaxDown"` // positive magnitude

	// target zone
	DirChangeMin   float64 `json:"dirChangeMin"`
	DirChangeMax   float64 `json:"dirChangeMax"`
	SpeedJitterMin float64 `json:"speedJitterMin"`
	SpeedJitterMax float64 `json:"speedJitterMax"`
	BounceMin      float64 `json:"bounceMin"`
	BounceMax      float64 `json:"bounceMax"`
}

// DefaultTuning returns the stock engine constants.
func DefaultTuning() Tuning {
	return Tuning{
		CastDelaySeconds: 0.28,
		BiteMinSeconds:   3,
		BiteMaxSeconds:   15,
		HookSettleSecs:   0.35,

		StartProgress:     0.25,
		TargetStart:       0.4,
		BarWidth:          0.15,
		DefaultEscapeSecs: 20,
		DecayGraceEnabled: false,
		DecayGraceSeconds: 0.1,

		BarLiftAccel: 3.6,
		BarFallAccel: 3.0,
		BarDamping:   0.92,
		BarMaxUp:     1.4,
		BarMaxDown:   1.5,

		DirChangeMin:   0.22,
		DirChangeMax:   1.4,
		SpeedJitterMin: 0.75,
		SpeedJitterMax: 1.35,
		BounceMin:      0.72,
		BounceMax:      0.92,
	}
}

// withDefaults fills every zero field from DefaultTuning. DecayGraceEnabled
// is kept as given.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&t.CastDelaySeconds, d.CastDelaySeconds)
	fill(&t.BiteMinSeconds, d.BiteMinSeconds)
	fill(&t.BiteMaxSeconds, d.BiteMaxSeconds)
	fill(&t.HookSettleSecs, d.HookSettleSecs)
	fill(&t.StartProgress, d.StartProgress)
	fill(&t.TargetStart, d.TargetStart)
	fill(&t.BarWidth, d.BarWidth)
	fill(&t.DefaultEscapeSecs, d.DefaultEscapeSecs)
	fill(&t.DecayGraceSeconds, d.DecayGraceSeconds)
	fill(&t.BarLiftAccel, d.BarLiftAccel)
	fill(&t.BarFallAccel, d.BarFallAccel)
	fill(&t.BarDamping, d.BarDamping)
	fill(&t.BarMaxUp, d.BarMaxUp)
	fill(&t.BarMaxDown, d.BarMaxDown)
	fill(&t.DirChangeMin, d.DirChangeMin)
	fill(&t.DirChangeMax, d.DirChangeMax)
	fill(&t.SpeedJitterMin, d.SpeedJitterMin)
	fill(&t.SpeedJitterMax, d.SpeedJitterMax)
	fill(&t.BounceMin, d.BounceMin)
	fill(&t.BounceMax, d.BounceMax)
	t.BiteMaxSeconds = max(t.BiteMaxSeconds, t.BiteMinSeconds)
	return t
}
