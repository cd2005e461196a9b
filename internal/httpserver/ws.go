// internal/httpserver/ws.go
//
// Websocket endpoint for live play: GET /api/game/{id}/ws
//
// Inbound (owner only), one JSON object per pointer event:
//
//	{"type":"down","pointer":1,"row":0,"col":2}
//	{"type":"move","pointer":1,"row":0,"col":3}
//	{"type":"up","pointer":1}      finalize
//	{"type":"cancel","pointer":1}  discard
//	{"type":"leave"}               pointer left the grid: finalize
//	{"type":"click","row":4,"col":4}
//	{"type":"commit"}
//	{"type":"pause"} / {"type":"resume"} / {"type":"restart"}
//
// Outbound: game events (state, match, finished, restart), a tick with the
// full state once per second, and {"type":"error","error":"<code>"}.
//
// One goroutine writes, the handler goroutine reads.

package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/grid"
)

const (
	tickInterval = time.Second
	writeWait    = 10 * time.Second
	maxMessage   = 1024
)

// wsIn is a client → server message.
type wsIn struct {
	Type    string `json:"type"`
	Pointer int    `json:"pointer"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

// wsError is a server → client error.
type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin allows same-host pages and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.opts.ClientOrigin != "" && origin == s.opts.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// handleWS upgrades the connection and streams the game.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	me := currentPlayer(r)
	owner := me != nil && me.PlayerID == g.Settings.PlayerID

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	conn.SetReadLimit(maxMessage)

	events, unsubscribe := g.Subscribe()
	replies := make(chan any, 8)
	done := make(chan struct{})

	go s.writePump(conn, g, events, replies, done)
	s.readPump(conn, g, owner, replies)

	close(done)
	unsubscribe()
	_ = conn.Close()
}

// readPump applies inbound events until the connection closes.
func (s *Server) readPump(conn *websocket.Conn, g *game.Game, owner bool, replies chan<- any) {
	reply := func(msg any) {
		select {
		case replies <- msg:
		default:
		}
	}

	for {
		var msg wsIn
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if !owner {
			reply(wsError{Type: "error", Error: "forbidden"})
			continue
		}
		if err := s.applyWS(g, msg); err != nil {
			reply(wsError{Type: "error", Error: wsErrCode(err)})
		}
	}
}

// applyWS maps one inbound message onto the engine. Match results reach
// the client through the game's event stream.
func (s *Server) applyWS(g *game.Game, msg wsIn) error {
	c := grid.Cell{Row: msg.Row, Col: msg.Col}
	var err error
	switch msg.Type {
	case "down":
		err = g.PointerDown(msg.Pointer, c)
	case "move":
		err = g.PointerMove(msg.Pointer, c)
	case "up":
		_, err = g.PointerUp(msg.Pointer)
	case "cancel":
		g.PointerCancel(msg.Pointer)
	case "leave":
		_, err = g.PointerLeave()
	case "click":
		err = g.Click(c)
	case "commit":
		_, err = g.Commit()
	case "pause":
		err = g.Pause()
	case "resume":
		err = g.Resume()
	case "restart":
		if g.Daily() != "" {
			return errDailyLocked
		}
		err = g.Restart()
	default:
		// ignore unknown types
	}
	return err
}

var errDailyLocked = errors.New("daily puzzle cannot be restarted")

func wsErrCode(err error) string {
	switch {
	case errors.Is(err, game.ErrFinished):
		return "finished"
	case errors.Is(err, game.ErrPaused):
		return "paused"
	case errors.Is(err, game.ErrNotPlaying):
		return "not_playing"
	case errors.Is(err, errDailyLocked):
		return "daily_locked"
	}
	return "server_error"
}

// writePump is the only writer on conn. It sends the initial state, then
// events, replies and ticks until done or the subscription closes.
func (s *Server) writePump(conn *websocket.Conn, g *game.Game, events <-chan game.Event, replies <-chan any, done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v) == nil
	}

	if !write(game.Event{Type: game.EventState, State: g.Snapshot()}) {
		return
	}
	for {
		select {
		case <-done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case ev, ok := <-events:
			if !ok {
				// game closed or we fell behind
				return
			}
			if !write(ev) {
				return
			}
		case msg := <-replies:
			if !write(msg) {
				return
			}
		case <-ticker.C:
			if !write(game.Event{Type: game.EventTick, State: g.Snapshot()}) {
				return
			}
		}
	}
}
