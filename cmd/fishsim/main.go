// Command fishsim runs a Monte Carlo over the fish roll for one loadout and
// writes the tier and species frequencies as CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/journal"
)

type options struct {
	catalogDir string
	rod, bait  string
	zone       string
	trials     int
	seed       uint64
	atLeast    string
	outDir     string
}

func main() {
	var o options
	flag.StringVar(&o.catalogDir, "catalog", "catalog", "Catalog directory (default.yaml + zones/)")
	flag.StringVar(&o.rod, "rod", "", "Rod id")
	flag.StringVar(&o.bait, "bait", "", "Bait id")
	flag.StringVar(&o.zone, "zone", "", "Zone id")
	flag.IntVar(&o.trials, "trials", 100000, "Number of rolls")
	flag.Uint64Var(&o.seed, "seed", 0, "RNG seed (0 = crypto randomness)")
	flag.StringVar(&o.atLeast, "at-least", "mythic", "Rarity measured by casts-until statistics")
	flag.StringVar(&o.outDir, "out", "", "Directory for tiers.csv and fish.csv (empty = stdout)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(o, os.Stdout); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(o options, stdout io.Writer) error {
	cat, err := catalog.NewLoader(o.catalogDir).LoadZone(o.zone)
	if err != nil {
		return err
	}
	rod, err := cat.Rod(o.rod)
	if err != nil {
		return err
	}
	bait, err := cat.Bait(o.bait)
	if err != nil {
		return err
	}
	pool, err := cat.Pool(o.zone)
	if err != nil {
		return err
	}
	atLeast, err := fishing.ParseRarity(o.atLeast)
	if err != nil {
		return err
	}
	var rng fishing.RandomSource
	if o.seed != 0 {
		rng = fishing.NewSeededRNG(o.seed)
	}

	res, err := fishing.Simulate(fishing.SimParams{
		Input:   fishing.RollInput{Rod: rod, Bait: bait, Pool: pool, Zone: o.zone},
		Trials:  o.trials,
		AtLeast: atLeast,
	}, rng)
	if err != nil {
		return err
	}
	slog.Info("simulation done",
		"zone", o.zone,
		"trials", res.Trials,
		"luck", res.LuckMultiplier,
		"chi2", res.ChiSquare,
		"casts_until_mean", res.CastsUntil.Mean,
		"casts_until_p90", res.CastsUntil.P90,
	)

	if o.outDir == "" {
		if err := journal.WriteTiers(stdout, res); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		return journal.WriteFish(stdout, res)
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeFile(filepath.Join(o.outDir, "tiers.csv"), res, journal.WriteTiers); err != nil {
		return err
	}
	return writeFile(filepath.Join(o.outDir, "fish.csv"), res, journal.WriteFish)
}

func writeFile(path string, res fishing.SimResult, write func(io.Writer, fishing.SimResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
