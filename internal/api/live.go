package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xtding233/fishing-backend/internal/encounter"
	"github.com/xtding233/fishing-backend/internal/session"
)

const (
	writeWait = 10 * time.Second
	// maxLiveStep caps dt after a stalled tick so a fish cannot escape in one jump.
	maxLiveStep = 0.1
)

// clientMessage is sent by the player: "hold" updates the reel input, the
// rest map onto session controls.
type clientMessage struct {
	Type string `json:"type"`
	Hold bool   `json:"hold,omitempty"`
}

type serverMessage struct {
	Type     string              `json:"type"`
	Snapshot *encounter.Snapshot `json:"snapshot,omitempty"`
	Err      string              `json:"err,omitempty"`
}

// handleLive upgrades to a websocket and runs the player's encounter at the
// server's tick rate until the client goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "player", sess.Player(), "err", err)
		return
	}
	defer conn.Close()

	inputs := make(chan clientMessage, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(inputs)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				s.log.Debug("discarding malformed message", "player", sess.Player(), "err", err)
				continue
			}
			select {
			case inputs <- msg:
			case <-done:
				return
			}
		}
	}()

	l := &liveLoop{srv: s, conn: conn, sess: sess}
	if err := l.send(serverMessage{Type: "state", Snapshot: ptr(sess.Snapshot())}); err != nil {
		return
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case msg, ok := <-inputs:
			if !ok {
				return
			}
			if err := l.handle(msg); err != nil {
				return
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxLiveStep)
			last = now
			snap, err := sess.Tick(dt, l.hold)
			if err != nil {
				continue
			}
			if err := l.sendIfChanged(snap); err != nil {
				return
			}
		}
	}
}

type liveLoop struct {
	srv      *Server
	conn     *websocket.Conn
	sess     *session.Session
	hold     bool
	lastSent []byte
}

func (l *liveLoop) handle(msg clientMessage) error {
	var (
		snap encounter.Snapshot
		err  error
	)
	switch msg.Type {
	case "hold":
		l.hold = msg.Hold
		return nil
	case "cast":
		snap, err = l.sess.Cast()
	case "cancel":
		snap, err = l.sess.Cancel()
	case "giveup":
		snap, err = l.sess.GiveUp()
	case "retry":
		snap, err = l.sess.Retry()
	case "close":
		snap = l.sess.Close()
	default:
		return l.send(serverMessage{Type: "error", Err: "unknown message type " + msg.Type})
	}
	if err != nil {
		return l.send(serverMessage{Type: "error", Snapshot: &snap, Err: err.Error()})
	}
	return l.sendIfChanged(snap)
}

// sendIfChanged skips snapshots identical to the last one sent.
func (l *liveLoop) sendIfChanged(snap encounter.Snapshot) error {
	data, err := json.Marshal(serverMessage{Type: "state", Snapshot: &snap})
	if err != nil {
		return err
	}
	if bytes.Equal(data, l.lastSent) {
		return nil
	}
	return l.write(data)
}

func (l *liveLoop) send(msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return l.write(data)
}

func (l *liveLoop) write(data []byte) error {
	l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := l.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		l.srv.log.Debug("live write failed", "player", l.sess.Player(), "err", err)
		return err
	}
	l.lastSent = data
	return nil
}

func ptr[T any](v T) *T { return &v }
