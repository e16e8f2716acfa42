// Package api exposes odds, simulation and per-player encounter control over
// HTTP, plus a websocket that drives a live encounter.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/xtding233/fishing-backend/internal/session"
)

const (
	defaultTickInterval = time.Second / 60
	maxTrials           = 1_000_000
)

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// TickInterval is how often the live websocket advances the encounter.
	TickInterval time.Duration
}

// Server holds the handlers' shared state.
type Server struct {
	mgr      *session.Manager
	log      *slog.Logger
	tick     time.Duration
	upgrader websocket.Upgrader
}

func NewServer(mgr *session.Manager, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	return &Server{
		mgr:  mgr,
		log:  opts.Logger,
		tick: opts.TickInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/catalog", s.handleCatalog).Methods("GET")
	r.HandleFunc("/odds", s.handleOdds).Methods("GET")
	r.HandleFunc("/roll", s.handleRoll).Methods("GET", "POST")
	r.HandleFunc("/simulate", s.handleSimulate).Methods("GET")

	p := r.PathPrefix("/players/{id}").Subrouter()
	p.HandleFunc("/state", s.handleState).Methods("GET")
	p.HandleFunc("/equip", s.handleEquip).Methods("POST")
	p.HandleFunc("/cast", s.handleCast).Methods("POST")
	p.HandleFunc("/tick", s.handleTick).Methods("POST")
	p.HandleFunc("/cancel", s.control((*session.Session).Cancel)).Methods("POST")
	p.HandleFunc("/giveup", s.control((*session.Session).GiveUp)).Methods("POST")
	p.HandleFunc("/retry", s.control((*session.Session).Retry)).Methods("POST")
	p.HandleFunc("/close", s.handleClose).Methods("POST")
	p.HandleFunc("/inventory", s.handleInventory).Methods("GET")
	p.HandleFunc("/inventory", s.handleGrant).Methods("POST")
	p.HandleFunc("/bestiary", s.handleBestiary).Methods("GET")
	p.HandleFunc("/ws", s.handleLive).Methods("GET")

	return r
}

func (s *Server) session(r *http.Request) *session.Session {
	return s.mgr.Get(mux.Vars(r)["id"])
}
