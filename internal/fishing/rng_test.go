package fishing

import "testing"

func TestRandomSources(t *testing.T) {
	live := DefaultRNG()
	for i := 0; i < 1000; i++ {
		if v := live.Float64(); v < 0 || v >= 1 {
			t.Fatalf("draw %d = %v, want [0, 1)", i, v)
		}
	}

	a, b := NewSeededRNG(11), NewSeededRNG(11)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs for the same seed: %v vs %v", i, x, y)
		}
	}

	if got := Uniform(RandomFunc(func() float64 { return 2 }), 0, 10); got >= 10 {
		t.Fatalf("out-of-range draws must stay below hi, got %v", got)
	}
	if got := Uniform(RandomFunc(func() float64 { return -1 }), 3, 5); got != 3 {
		t.Fatalf("negative draws clamp to lo, got %v", got)
	}
}
