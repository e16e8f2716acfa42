package api

import (
	"net/http"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/journal"
)

type catalogResp struct {
	Version string   `json:"version,omitempty"`
	Zones   []string `json:"zones"`
	Rods    []string `json:"rods"`
	Baits   []string `json:"baits"`
}

type oddsResp struct {
	Zone           string                `json:"zone"`
	LuckMultiplier float64               `json:"luckMultiplier"`
	ZoneBonus      float64               `json:"zoneBonus"`
	Distribution   fishing.RarityWeights `json:"distribution"`
}

// rollInput resolves ?rod=&bait=&zone= against the catalog.
func rollInput(cat *catalog.Catalog, r *http.Request) (fishing.RollInput, error) {
	q := r.URL.Query()
	rod, err := cat.Rod(q.Get("rod"))
	if err != nil {
		return fishing.RollInput{}, err
	}
	bait, err := cat.Bait(q.Get("bait"))
	if err != nil {
		return fishing.RollInput{}, err
	}
	zone := q.Get("zone")
	pool, err := cat.Pool(zone)
	if err != nil {
		return fishing.RollInput{}, err
	}
	return fishing.RollInput{Rod: rod, Bait: bait, Pool: pool, Zone: zone}, nil
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.mgr.Catalog()
	writeJSON(w, http.StatusOK, catalogResp{
		Version: cat.Version,
		Zones:   cat.Zones(),
		Rods:    cat.Rods(),
		Baits:   cat.Baits(),
	})
}

// GET /odds?rod=&bait=&zone=
func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	in, err := rollInput(s.mgr.Catalog(), r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	luck, bonus, dist := fishing.Odds(in.Rod, in.Bait, in.Zone)
	writeJSON(w, http.StatusOK, oddsResp{
		Zone:           in.Zone,
		LuckMultiplier: luck,
		ZoneBonus:      bonus,
		Distribution:   dist,
	})
}

// /roll?rod=&bait=&zone=[&seed=] rolls one fish without a minigame.
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	in, err := rollInput(s.mgr.Catalog(), r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	rng, msg := rngFor(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	res, err := fishing.RollFish(in, rng)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /simulate?rod=&bait=&zone=&trials=[&at_least=][&seed=][&format=csv]
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	in, err := rollInput(s.mgr.Catalog(), r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" || !ok || trials <= 0 || trials > maxTrials {
		writeError(w, http.StatusBadRequest, "missing/invalid param trials")
		return
	}
	var atLeast fishing.Rarity
	if v := r.URL.Query().Get("at_least"); v != "" {
		if atLeast, err = fishing.ParseRarity(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	rng, msg := rngFor(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := fishing.Simulate(fishing.SimParams{Input: in, Trials: trials, AtLeast: atLeast}, rng)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := journal.WriteTiers(w, res); err != nil {
			s.log.Error("simulate csv", "err", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}
