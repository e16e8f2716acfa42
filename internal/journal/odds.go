package journal

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

// TierRow is one rarity line of a simulation export.
type TierRow struct {
	Rarity   string  `csv:"rarity"`
	Expected float64 `csv:"expected"`
	Observed float64 `csv:"observed"`
	Delta    float64 `csv:"delta"`
}

// FishRow is one species line of a simulation export.
type FishRow struct {
	FishID string  `csv:"fish"`
	Name   string  `csv:"name"`
	Rarity string  `csv:"rarity"`
	Count  int     `csv:"count"`
	Freq   float64 `csv:"freq"`
}

// TierRows flattens the rarity comparison of a simulation in tier order.
func TierRows(res fishing.SimResult) []TierRow {
	rows := make([]TierRow, 0, len(fishing.RarityOrder))
	for _, r := range fishing.RarityOrder {
		rows = append(rows, TierRow{
			Rarity:   string(r),
			Expected: res.Expected[r],
			Observed: res.Observed[r],
			Delta:    res.Observed[r] - res.Expected[r],
		})
	}
	return rows
}

// WriteTiers writes the rarity comparison as CSV.
func WriteTiers(w io.Writer, res fishing.SimResult) error {
	if err := gocsv.Marshal(TierRows(res), w); err != nil {
		return fmt.Errorf("writing tiers: %w", err)
	}
	return nil
}

// WriteFish writes per-species counts as CSV, most frequent first.
func WriteFish(w io.Writer, res fishing.SimResult) error {
	rows := make([]FishRow, 0, len(res.Fish))
	for _, f := range res.Fish {
		rows = append(rows, FishRow{FishID: f.FishID, Name: f.Name, Rarity: string(f.Rarity), Count: f.Count, Freq: f.Freq})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing fish: %w", err)
	}
	return nil
}
