package encounter

import (
	"math"
	"testing"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

func TestMissGrace(t *testing.T) {
	fish := stillFish("carp", fishing.Common, 0.2, 10)
	tuning := DefaultTuning()

	s := newMinigameState(tuning, fish, testRod, constRNG(0))
	start := s.progress
	s.step(tuning, 0.05, false, constRNG(0))
	if s.progress >= start {
		t.Fatalf("without grace progress should decay at once: %v -> %v", start, s.progress)
	}

	tuning.DecayGraceEnabled = true
	s = newMinigameState(tuning, fish, testRod, constRNG(0))
	s.step(tuning, 0.05, false, constRNG(0))
	s.step(tuning, 0.05, false, constRNG(0))
	if s.progress != start {
		t.Fatalf("first 0.1s after a miss should not decay: %v -> %v", start, s.progress)
	}
	if g := s.snapshot(tuning).MissGrace; g > 1e-9 {
		t.Fatalf("grace should be used up, got %v", g)
	}
	s.step(tuning, 0.05, false, constRNG(0))
	if s.progress >= start {
		t.Fatalf("decay should start once grace runs out")
	}

	// a fresh overlap resets the grace timer
	s.targetPos = 0
	s.step(tuning, 0.05, false, constRNG(0))
	if !s.overlapping || s.missElapsed != 0 {
		t.Fatalf("overlap should reset grace: overlapping=%v missElapsed=%v", s.overlapping, s.missElapsed)
	}
}

func TestMissGraceCoarseTick(t *testing.T) {
	tuning := DefaultTuning()
	tuning.DecayGraceEnabled = true
	fish := stillFish("carp", fishing.Common, 0.2, 10)

	// one 0.2s tick: 0.1s of grace, then 0.1s of decay at 1.5/s
	s := newMinigameState(tuning, fish, testRod, constRNG(0))
	s.step(tuning, 0.2, false, constRNG(0))
	if s.overlapping {
		t.Fatalf("bar should miss the target")
	}
	if math.Abs(s.progress-0.10) > 1e-9 {
		t.Fatalf("progress = %v, want 0.10", s.progress)
	}

	s = newMinigameState(tuning, fish, testRod, constRNG(0))
	s.step(tuning, 0.5, false, constRNG(0))
	if s.progress != 0 {
		t.Fatalf("a long miss tick should drain progress to 0, got %v", s.progress)
	}
}

func TestSturdinessDampensTarget(t *testing.T) {
	fish := fishing.Fish{ID: "eel", Minigame: fishing.MinigameTuning{
		CatchTimeSeconds: 2, TargetWidth: 0.2, TargetSpeed: 1, Erraticness: 1,
	}}
	tuning := DefaultTuning()

	soft := newMinigameState(tuning, fish, fishing.Rod{Sturdiness: 0}, constRNG(0))
	hard := newMinigameState(tuning, fish, fishing.Rod{Sturdiness: 100}, constRNG(0))
	if soft.targetSpeed != 1 || math.Abs(hard.targetSpeed-0.65) > 1e-12 {
		t.Fatalf("speeds = %v / %v, want 1 / 0.65", soft.targetSpeed, hard.targetSpeed)
	}
	if math.Abs(hard.erratic-0.65) > 1e-12 {
		t.Fatalf("erraticness = %v, want 0.65", hard.erratic)
	}
	// rng 0.999 draws the upper end of the direction interval
	if soft.nextDirInterval(tuning, constRNG(0.999)) >= hard.nextDirInterval(tuning, constRNG(0.999)) {
		t.Fatalf("a sturdier rod should make the fish change direction less often")
	}
}

func TestReelStaysOnTrack(t *testing.T) {
	fish := fishing.Fish{ID: "marlin", Minigame: fishing.MinigameTuning{
		CatchTimeSeconds: 5, EscapeSeconds: 60, TargetWidth: 0.12, TargetSpeed: 2.5, Erraticness: 1,
	}}
	tuning := DefaultTuning()
	rng := fishing.NewSeededRNG(3)
	s := newMinigameState(tuning, fish, fishing.Rod{}, rng)

	for i := 0; i < 3000; i++ {
		s.step(tuning, 1.0/60, (i/25)%2 == 0, rng)
		if s.barPos < 0 || s.barPos > 1-s.barWidth+1e-12 {
			t.Fatalf("bar left the track at step %d: %v", i, s.barPos)
		}
		if s.targetPos < 0 || s.targetPos > 1-s.targetWidth+1e-12 {
			t.Fatalf("target left the track at step %d: %v", i, s.targetPos)
		}
		if s.barVel < -tuning.BarMaxDown || s.barVel > tuning.BarMaxUp {
			t.Fatalf("bar velocity out of range at step %d: %v", i, s.barVel)
		}
		if s.progress < 0 || s.progress > 1 {
			t.Fatalf("progress out of range at step %d: %v", i, s.progress)
		}
	}
}

func TestBarPhysics(t *testing.T) {
	tuning := DefaultTuning()
	s := newMinigameState(tuning, stillFish("a", fishing.Common, 0.2, 10), testRod, constRNG(0))

	for i := 0; i < 600; i++ {
		s.stepBar(tuning, 1.0/60, true)
	}
	if s.barPos != 1-s.barWidth || s.barVel != 0 {
		t.Fatalf("held bar should rest against the top: pos=%v vel=%v", s.barPos, s.barVel)
	}
	for i := 0; i < 600; i++ {
		s.stepBar(tuning, 1.0/60, false)
	}
	if s.barPos != 0 || s.barVel != 0 {
		t.Fatalf("released bar should rest on the bottom: pos=%v vel=%v", s.barPos, s.barVel)
	}
}
