package api

import (
	"encoding/json"
	"net/http"

	"github.com/xtding233/fishing-backend/internal/encounter"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/journal"
	"github.com/xtding233/fishing-backend/internal/session"
)

type snapshotResp struct {
	Snapshot encounter.Snapshot `json:"snapshot"`
	Err      string             `json:"err,omitempty"`
}

type stateResp struct {
	Player   string             `json:"player"`
	Loadout  session.Loadout    `json:"loadout"`
	Snapshot encounter.Snapshot `json:"snapshot"`
}

type grantReq struct {
	BaitID   string `json:"baitId"`
	Quantity int    `json:"quantity"`
}

type bestiaryResp struct {
	Best    fishing.Rarity  `json:"best,omitempty"`
	Entries []journal.Entry `json:"entries"`
}

// writeSnapshot reports the snapshot along with err, if any.
func writeSnapshot(w http.ResponseWriter, snap encounter.Snapshot, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), snapshotResp{Snapshot: snap, Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snapshotResp{Snapshot: snap})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	writeJSON(w, http.StatusOK, stateResp{
		Player:   sess.Player(),
		Loadout:  sess.Loadout(),
		Snapshot: sess.Snapshot(),
	})
}

// POST /players/{id}/equip {"rodId":..,"baitId":..,"zone":..}
func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var l session.Loadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	sess := s.session(r)
	if err := sess.Equip(l); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Loadout())
}

func (s *Server) handleCast(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session(r).Cast()
	writeSnapshot(w, snap, err)
}

// POST /players/{id}/tick?dt=0.016&hold=true
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	dt, ok, msg := parseFloat(r, "dt")
	if !ok {
		if msg == "" {
			msg = "missing param dt"
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	hold := r.URL.Query().Get("hold") == "true"
	snap, err := s.session(r).Tick(dt, hold)
	writeSnapshot(w, snap, err)
}

func (s *Server) control(op func(*session.Session) (encounter.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := op(s.session(r))
		writeSnapshot(w, snap, err)
	}
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, s.session(r).Close(), nil)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session(r).Stock().Items())
}

// POST /players/{id}/inventory {"baitId":..,"quantity":..}
func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req grantReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if _, err := s.mgr.Catalog().Bait(req.BaitID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	stock := s.session(r).Stock()
	if err := stock.Add(req.BaitID, req.Quantity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stock.Items())
}

func (s *Server) handleBestiary(w http.ResponseWriter, r *http.Request) {
	b := s.session(r).Bestiary()
	writeJSON(w, http.StatusOK, bestiaryResp{Best: b.Best(), Entries: b.Entries()})
}
