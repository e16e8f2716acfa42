package encounter

import (
	"math"

	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/minigame"
)

// minigameState is the live reel state. It exists only while the engine is
// in StateMinigame and is owned exclusively by the engine.
type minigameState struct {
	fish       fishing.Fish
	catchTime  float64
	sturdiness float64

	progress float64

	barPos   float64
	barVel   float64
	barWidth float64

	targetPos   float64
	targetWidth float64
	targetVel   float64
	targetSpeed float64 // after sturdiness
	erratic     float64 // after sturdiness
	dirTimer    float64

	escape      float64
	overlapping bool
	missElapsed float64
}

func newMinigameState(t Tuning, fish fishing.Fish, rod fishing.Rod, rng fishing.RandomSource) *minigameState {
	m := fish.Minigame
	escape := m.EscapeSeconds
	if escape <= 0 {
		escape = t.DefaultEscapeSecs
	}
	width := minigame.Clamp(m.TargetWidth, 0.01, 0.99)
	s := &minigameState{
		fish:        fish,
		catchTime:   m.CatchTimeSeconds,
		sturdiness:  rod.Sturdiness,
		progress:    minigame.Clamp(t.StartProgress, 0, 1),
		barWidth:    t.BarWidth,
		targetWidth: width,
		targetPos:   minigame.Clamp(t.TargetStart, 0, 1-width),
		targetSpeed: minigame.ApplySturdinessToMovement(math.Max(0, m.TargetSpeed), rod.Sturdiness),
		erratic:     minigame.ApplySturdinessToMovement(minigame.Clamp(m.Erraticness, 0, 1), rod.Sturdiness),
		escape:      escape,
	}
	s.overlapping = minigame.ComputeBarOverlap(s.barPos, s.barWidth, s.targetPos, s.targetWidth)
	s.dirTimer = s.nextDirInterval(t, rng)
	return s
}

// nextDirInterval draws how long the target keeps its heading. Erratic fish
// get a shorter upper bound.
func (s *minigameState) nextDirInterval(t Tuning, rng fishing.RandomSource) float64 {
	upper := t.DirChangeMax - (t.DirChangeMax-t.DirChangeMin)*s.erratic
	return fishing.Uniform(rng, t.DirChangeMin, upper)
}

// step advances the reel by dt seconds.
func (s *minigameState) step(t Tuning, dt float64, hold bool, rng fishing.RandomSource) {
	s.stepBar(t, dt, hold)
	s.stepTarget(t, dt, rng)

	s.overlapping = minigame.ComputeBarOverlap(s.barPos, s.barWidth, s.targetPos, s.targetWidth)

	if s.overlapping {
		s.missElapsed = 0
		s.progress = minigame.UpdateCatchProgress(s.progress, s.catchTime, true, dt)
	} else {
		// miss grace: no decay for the first DecayGraceSeconds after losing
		// the target, even when one tick spans past the end of it
		decay := dt
		if t.DecayGraceEnabled {
			decay = max(0, dt-max(0, t.DecayGraceSeconds-s.missElapsed))
		}
		s.missElapsed += dt
		if decay > 0 {
			s.progress = minigame.UpdateCatchProgress(s.progress, s.catchTime, false, decay)
		}
	}

	s.escape -= dt
}

func (s *minigameState) stepBar(t Tuning, dt float64, hold bool) {
	if hold {
		s.barVel += t.BarLiftAccel * dt
	} else {
		s.barVel -= t.BarFallAccel * dt
	}
	s.barVel *= math.Pow(t.BarDamping, dt*60)
	s.barVel = minigame.Clamp(s.barVel, -t.BarMaxDown, t.BarMaxUp)

	s.barPos += s.barVel * dt
	limit := 1 - s.barWidth
	if s.barPos <= 0 {
		s.barPos = 0
		if s.barVel < 0 {
			s.barVel = 0
		}
	} else if s.barPos >= limit {
		s.barPos = limit
		if s.barVel > 0 {
			s.barVel = 0
		}
	}
}

func (s *minigameState) stepTarget(t Tuning, dt float64, rng fishing.RandomSource) {
	s.dirTimer -= dt
	if s.dirTimer <= 0 {
		dir := 1.0
		if fishing.Uniform(rng, 0, 1) < 0.5 {
			dir = -1
		}
		s.targetVel = dir * s.targetSpeed * fishing.Uniform(rng, t.SpeedJitterMin, t.SpeedJitterMax)
		s.dirTimer = s.nextDirInterval(t, rng)
	}

	s.targetPos += s.targetVel * dt
	limit := 1 - s.targetWidth
	if s.targetPos < 0 {
		s.targetPos = 0
		s.targetVel = math.Abs(s.targetVel) * fishing.Uniform(rng, t.BounceMin, t.BounceMax)
	} else if s.targetPos > limit {
		s.targetPos = limit
		s.targetVel = -math.Abs(s.targetVel) * fishing.Uniform(rng, t.BounceMin, t.BounceMax)
	}
}

func (s *minigameState) snapshot(t Tuning) *MinigameSnapshot {
	grace := 0.0
	if t.DecayGraceEnabled && !s.overlapping {
		grace = math.Max(0, t.DecayGraceSeconds-s.missElapsed)
	}
	return &MinigameSnapshot{
		Progress:       s.progress,
		BarPosition:    s.barPos,
		BarWidth:       s.barWidth,
		TargetPosition: s.targetPos,
		TargetWidth:    s.targetWidth,
		EscapeSeconds:  math.Max(0, s.escape),
		Overlapping:    s.overlapping,
		MissGrace:      grace,
	}
}
