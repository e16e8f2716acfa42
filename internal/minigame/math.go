// Package minigame holds the pure numeric pieces of the reel minigame.
package minigame

// MaxSturdinessReduction caps how much rod sturdiness can calm a fish.
const MaxSturdinessReduction = 0.35

// DecayFactor is how much faster progress drains than it fills.
const DecayFactor = 1.5

// minCatchTime guards the growth rate against zero or negative catch times.
const minCatchTime = 0.05

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IntervalsOverlap reports whether [aStart,aEnd] and [bStart,bEnd] intersect.
// Touching endpoints count as overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// ComputeBarOverlap tests the player bar against the target zone.
func ComputeBarOverlap(barPos, barWidth, targetPos, targetWidth float64) bool {
	return IntervalsOverlap(barPos, barPos+barWidth, targetPos, targetPos+targetWidth)
}

// UpdateCatchProgress integrates progress for one step.
// growth = 1/catchTimeSeconds, decay = DecayFactor * growth; result in [0,1].
func UpdateCatchProgress(progress, catchTimeSeconds float64, overlap bool, dtSeconds float64) float64 {
	if dtSeconds <= 0 {
		return Clamp(progress, 0, 1)
	}
	if catchTimeSeconds < minCatchTime {
		catchTimeSeconds = minCatchTime
	}
	growth := 1 / catchTimeSeconds
	if overlap {
		progress += growth * dtSeconds
	} else {
		progress -= DecayFactor * growth * dtSeconds
	}
	return Clamp(progress, 0, 1)
}

// ApplySturdinessToMovement dampens a movement stat (speed or erraticness)
// by the rod's sturdiness, never by more than MaxSturdinessReduction.
func ApplySturdinessToMovement(base, sturdiness float64) float64 {
	factor := Clamp(sturdiness/100, 0, MaxSturdinessReduction)
	return base * (1 - factor)
}
