package fishing

import (
	"errors"
	"math"
	"testing"
)

// sequence replays vals in order, repeating the last one.
func sequence(vals ...float64) RandomSource {
	i := 0
	return RandomFunc(func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	})
}

func testPool() []Fish {
	return []Fish{
		{ID: "minnow", Zone: "lake", Rarity: Common, EncounterWeight: 3},
		{ID: "perch", Zone: "lake", Rarity: Common, EncounterWeight: 1},
		{ID: "pike", Zone: "lake", Rarity: Rare, EncounterWeight: 1},
		{ID: "koi", Zone: "lake", Rarity: Epic, EncounterWeight: 1},
		{ID: "leviathan", Zone: "lake", Rarity: Mythic, EncounterWeight: 1},
	}
}

func checkDistribution(t *testing.T, d RarityWeights) {
	t.Helper()
	if s := d.Sum(); math.Abs(s-1) > 1e-9 {
		t.Fatalf("distribution sums to %v: %v", s, d)
	}
	for _, r := range RarityOrder {
		if d[r] < 0 || d[r] > 1 {
			t.Fatalf("tier %s out of range: %v", r, d[r])
		}
	}
	if d[Mythic] > MythicCap+1e-9 {
		t.Fatalf("mythic above cap: %v", d[Mythic])
	}
}

func TestComputeRarityDistributionSumsToOne(t *testing.T) {
	for _, luck := range []float64{0, 0.5, 1, 1.5, 2, 5, 10, 100, 1e6, math.Inf(1), math.NaN(), -3} {
		checkDistribution(t, ComputeRarityDistribution(luck))
	}
}

func TestComputeRarityDistributionNeutralLuck(t *testing.T) {
	d := ComputeRarityDistribution(1)
	want := RarityWeights{Common: 0.55, Uncommon: 0.25, Rare: 0.12, Epic: 0.06, Mythic: 0.02}
	for _, r := range RarityOrder {
		if math.Abs(d[r]-want[r]) > 1e-12 {
			t.Errorf("%s = %v, want %v", r, d[r], want[r])
		}
	}
}

func TestNormalizeRarityWeightsCapsMythic(t *testing.T) {
	d := NormalizeRarityWeights(RarityWeights{Common: 55, Uncommon: 25, Rare: 10, Epic: 5, Mythic: 50})
	checkDistribution(t, d)
	if math.Abs(d[Mythic]-MythicCap) > 1e-9 {
		t.Fatalf("mythic should sit at the cap, got %v", d[Mythic])
	}
	// the other tiers keep their ratios after redistribution
	if math.Abs(d[Common]/d[Uncommon]-55.0/25.0) > 1e-9 {
		t.Fatalf("redistribution should be proportional, got %v", d)
	}
	if math.Abs(d[Rare]/d[Epic]-2) > 1e-9 {
		t.Fatalf("redistribution should be proportional, got %v", d)
	}
}

func TestComputeRarityDistributionHighLuck(t *testing.T) {
	low := ComputeRarityDistribution(2)
	high := ComputeRarityDistribution(1000)
	if high[Mythic] <= low[Mythic] {
		t.Fatalf("more luck should raise mythic odds: %v vs %v", low[Mythic], high[Mythic])
	}
	if high[Mythic] > MythicCap+1e-9 {
		t.Fatalf("mythic above cap at high luck: %v", high[Mythic])
	}
	if high[Common] >= low[Common] {
		t.Fatalf("more luck should shrink common odds: %v vs %v", low[Common], high[Common])
	}
}

func TestLuckMonotonicBeforeCap(t *testing.T) {
	topShare := func(luck float64) float64 {
		raw := BaseRarityWeights()
		for r := range raw {
			if luckScaled[r] {
				raw[r] *= luck
			}
		}
		return (raw[Rare] + raw[Epic] + raw[Mythic]) / raw.Sum()
	}
	prev := topShare(1)
	for luck := 1.25; luck <= 50; luck += 0.25 {
		cur := topShare(luck)
		if cur < prev {
			t.Fatalf("top share fell from %v to %v at luck %v", prev, cur, luck)
		}
		prev = cur
	}
}

func TestNormalizeRarityWeightsArbitraryInput(t *testing.T) {
	rng := NewSeededRNG(7)
	for i := 0; i < 500; i++ {
		raw := RarityWeights{}
		for _, r := range RarityOrder {
			raw[r] = (rng.Float64() - 0.2) * 100
		}
		checkDistribution(t, NormalizeRarityWeights(raw))
	}
	checkDistribution(t, NormalizeRarityWeights(RarityWeights{}))
	checkDistribution(t, NormalizeRarityWeights(RarityWeights{Mythic: 1}))

	only := NormalizeRarityWeights(RarityWeights{Mythic: 5})
	for _, r := range RarityOrder[:4] {
		if math.Abs(only[r]-0.225) > 1e-9 {
			t.Fatalf("excess should split evenly when others are zero, %s=%v", r, only[r])
		}
	}
}

func TestPickRarityBoundaries(t *testing.T) {
	w := RarityWeights{Common: 0.5, Uncommon: 0.25, Rare: 0.25}
	tests := []struct {
		roll float64
		want Rarity
	}{
		{0, Common},
		{0.5, Common},
		{0.5000001, Uncommon},
		{0.75, Uncommon},
		{0.99, Rare},
	}
	for _, tt := range tests {
		if got := PickRarity(w, sequence(tt.roll)); got != tt.want {
			t.Errorf("PickRarity(roll=%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}

	noCommon := RarityWeights{Uncommon: 0.7, Epic: 0.3}
	if got := PickRarity(noCommon, sequence(0)); got != Uncommon {
		t.Fatalf("roll 0 should pick first non-zero tier, got %s", got)
	}
	if got := PickRarity(RarityWeights{}, sequence(0.3)); got != Common {
		t.Fatalf("empty table should fall back to common, got %s", got)
	}
}

func TestPickFishByRarity(t *testing.T) {
	pool := testPool()

	got, err := PickFishByRarity(pool, Common, sequence(0.7))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "minnow" {
		t.Fatalf("roll 0.7*4=2.8 should land on minnow, got %s", got.ID)
	}
	got, _ = PickFishByRarity(pool, Common, sequence(0.8))
	if got.ID != "perch" {
		t.Fatalf("roll 0.8*4=3.2 should land on perch, got %s", got.ID)
	}

	got, _ = PickFishByRarity(pool, Uncommon, sequence(0.1))
	if got.ID != "minnow" {
		t.Fatalf("missing tier should fall back to the first pool entry, got %s", got.ID)
	}

	zero := []Fish{
		{ID: "a", Rarity: Rare},
		{ID: "b", Rarity: Rare},
	}
	got, _ = PickFishByRarity(zero, Rare, sequence(0.6))
	if got.ID != "b" {
		t.Fatalf("zero total weight should sample uniformly, got %s", got.ID)
	}

	if _, err := PickFishByRarity(nil, Common, sequence(0)); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestLuckMultiplier(t *testing.T) {
	rod := Rod{ID: "r", Luck: 50, ZonePassive: &ZonePassive{Zone: "lake", LuckMultiplier: 1.5}}
	bait := Bait{ID: "b", LuckMultiplier: 2, Zone: "lake"}

	zb := ComputeZoneBonusFactor(rod, "lake")
	if zb != 1.5 {
		t.Fatalf("zone bonus in zone = %v, want 1.5", zb)
	}
	if got := ComputeLuckMultiplier(rod, bait, zb, "lake"); math.Abs(got-4.5) > 1e-12 {
		t.Fatalf("luck in zone = %v, want 4.5", got)
	}

	zb = ComputeZoneBonusFactor(rod, "sea")
	if zb != 1 {
		t.Fatalf("zone bonus outside zone = %v, want 1", zb)
	}
	if got := ComputeLuckMultiplier(rod, bait, zb, "sea"); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("bait should be neutral outside its zone, luck = %v", got)
	}

	weak := Rod{ZonePassive: &ZonePassive{Zone: "lake", LuckMultiplier: 0.5}}
	if got := ComputeZoneBonusFactor(weak, "lake"); got != 1 {
		t.Fatalf("zone bonus must never drop below 1, got %v", got)
	}
	if got := ComputeLuckMultiplier(Rod{}, Bait{}, 0.2, "lake"); got != 1 {
		t.Fatalf("empty equipment should be neutral, got %v", got)
	}
}

func TestRollFishDeterministic(t *testing.T) {
	in := RollInput{Rod: Rod{ID: "r"}, Bait: Bait{ID: "b", LuckMultiplier: 1}, Pool: testPool(), Zone: "lake"}

	// 0.95 lands in epic (cumulative 0.92..0.98), single epic fish
	res, err := RollFish(in, sequence(0.95, 0.0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Rarity != Epic || res.Fish.ID != "koi" {
		t.Fatalf("got %s/%s, want epic/koi", res.Rarity, res.Fish.ID)
	}
	if res.LuckMultiplier != 1 {
		t.Fatalf("luck = %v, want 1", res.LuckMultiplier)
	}
	checkDistribution(t, res.Distribution)

	a, _ := RollFish(in, NewSeededRNG(99))
	b, _ := RollFish(in, NewSeededRNG(99))
	if a.Fish.ID != b.Fish.ID || a.Rarity != b.Rarity {
		t.Fatalf("same seed should give the same roll: %v vs %v", a, b)
	}

	if _, err := RollFish(RollInput{}, nil); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}
