package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/fishing"
	"github.com/xtding233/fishing-backend/internal/session"
)

type errorResp struct {
	Err string `json:"err"`
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// rngFor returns a seeded source when the request carries ?seed=, otherwise
// crypto randomness.
func rngFor(r *http.Request) (fishing.RandomSource, string) {
	s := r.URL.Query().Get("seed")
	if s == "" {
		return fishing.DefaultRNG(), ""
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, "invalid seed"
	}
	return fishing.NewSeededRNG(seed), ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Err: msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownID):
		return http.StatusNotFound
	case errors.Is(err, session.ErrWrongState),
		errors.Is(err, session.ErrNotEquipped),
		errors.Is(err, session.ErrNoBait):
		return http.StatusConflict
	case errors.Is(err, session.ErrBadTick),
		errors.Is(err, fishing.ErrEmptyPool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
