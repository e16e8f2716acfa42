package fishing

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// RandomSource yields floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// cryptoSource is a math/rand/v2 Source that reads crypto/rand. It holds
// no state, so a *rand.Rand built on it is safe to share.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := cryptoRand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}

// DefaultRNG is used for live play.
func DefaultRNG() RandomSource { return rand.New(cryptoSource{}) }

// NewSeededRNG gives reproducible draws for tests and simulations. It is not
// safe for concurrent use.
func NewSeededRNG(seed uint64) RandomSource { return rand.New(rand.NewPCG(seed, 0)) }

// roll draws from rng and keeps the value inside [0, 1).
func roll(rng RandomSource) float64 {
	if rng == nil {
		rng = DefaultRNG()
	}
	v := rng.Float64()
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= 1 {
		return 1 - 1e-12
	}
	return v
}

// Uniform returns a value in [lo, hi) using rng.
func Uniform(rng RandomSource, lo, hi float64) float64 {
	return lo + roll(rng)*(hi-lo)
}
