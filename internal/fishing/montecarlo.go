package fishing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SimParams describes one Monte Carlo run over RollFish.
type SimParams struct {
	Input  RollInput
	Trials int
	// AtLeast sets the tier measured by CastsUntil; empty means mythic.
	AtLeast Rarity
}

// Stats summarizes integer samples.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stdDev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	// Optional: raw samples if caller needs histograms/exports
	Samples []float64 `json:"-"`
}

// FishCount is how often one fish was drawn.
type FishCount struct {
	FishID string  `json:"fishId"`
	Name   string  `json:"name"`
	Rarity Rarity  `json:"rarity"`
	Count  int     `json:"count"`
	Freq   float64 `json:"freq"`
}

// SimResult is the outcome of Simulate.
type SimResult struct {
	Trials         int           `json:"trials"`
	LuckMultiplier float64       `json:"luckMultiplier"`
	Expected       RarityWeights `json:"expected"`
	Observed       RarityWeights `json:"observed"`
	// ChiSquare compares observed tier counts with Expected; tiers with zero
	// expected probability are left out.
	ChiSquare  float64     `json:"chiSquare"`
	Fish       []FishCount `json:"fish"`
	CastsUntil Stats       `json:"castsUntil"`
}

// calcStats computes mean/variance/percentiles for samples.
func calcStats(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mean, variance := stat.PopMeanVariance(xs, nil)
	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:     stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		P99:     stat.Quantile(0.99, stat.LinInterp, sorted, nil),
		Samples: xs,
	}
}

// Simulate repeats RollFish and tallies what came out. CastsUntil measures
// the number of casts between consecutive fish of at least p.AtLeast.
func Simulate(p SimParams, rng RandomSource) (SimResult, error) {
	if p.Trials <= 0 {
		return SimResult{}, nil
	}
	if len(p.Input.Pool) == 0 {
		return SimResult{}, ErrEmptyPool
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	target := p.AtLeast
	if target == "" {
		target = Mythic
	}

	tiers := make(map[Rarity]int, len(RarityOrder))
	perFish := make(map[string]*FishCount)
	var order []string
	var gaps []float64
	sinceLast := 0

	var res SimResult
	for i := 0; i < p.Trials; i++ {
		out, err := RollFish(p.Input, rng)
		if err != nil {
			return SimResult{}, err
		}
		if i == 0 {
			res.LuckMultiplier = out.LuckMultiplier
			res.Expected = out.Distribution
		}
		tiers[out.Rarity]++
		fc, ok := perFish[out.Fish.ID]
		if !ok {
			fc = &FishCount{FishID: out.Fish.ID, Name: out.Fish.Name, Rarity: out.Fish.Rarity}
			perFish[out.Fish.ID] = fc
			order = append(order, out.Fish.ID)
		}
		fc.Count++

		sinceLast++
		if out.Rarity.Rank() >= target.Rank() {
			gaps = append(gaps, float64(sinceLast))
			sinceLast = 0
		}
	}

	res.Trials = p.Trials
	res.Observed = make(RarityWeights, len(RarityOrder))
	var obs, exp []float64
	for _, r := range RarityOrder {
		res.Observed[r] = float64(tiers[r]) / float64(p.Trials)
		if e := res.Expected[r] * float64(p.Trials); e > 0 {
			obs = append(obs, float64(tiers[r]))
			exp = append(exp, e)
		}
	}
	if len(obs) > 0 {
		res.ChiSquare = stat.ChiSquare(obs, exp)
	}

	for _, id := range order {
		fc := perFish[id]
		fc.Freq = float64(fc.Count) / float64(p.Trials)
		res.Fish = append(res.Fish, *fc)
	}
	sort.SliceStable(res.Fish, func(i, j int) bool { return res.Fish[i].Count > res.Fish[j].Count })
	res.CastsUntil = calcStats(gaps)
	return res, nil
}
