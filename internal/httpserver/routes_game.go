// internal/httpserver/routes_game.go
//
// Session and game endpoints.
//   - POST   /api/session           → store setup choices in a signed cookie
//   - GET    /api/session           → current setup choices
//   - DELETE /api/session           → forget the player ("Go Back Home")
//   - POST   /api/game/new          → start a puzzle with the session's choices
//   - GET    /api/game/{id}         → snapshot (anyone with the link)
//   - POST   /api/game/{id}/select  → submit a finished selection
//   - POST   /api/game/{id}/pause   → freeze the countdown
//   - POST   /api/game/{id}/resume  → continue
//   - POST   /api/game/{id}/restart → new words, same settings ("Play Again")
//   - DELETE /api/game/{id}         → abandon the game ("Go Back Home")
//   - GET    /api/games/mine        → the player's finished rounds
//
// Errors are JSON objects of the form {"error":"<code>"}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/results"
	"github.com/robalobadob/wordsearch/internal/store"
)

// -----------------------------------------------------------------------------
// session

// sessionReq is the setup form.
type sessionReq struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	TimeLimit  int    `json:"timeLimit"` // seconds: 30, 60 or 90
}

// sessionRes echoes the stored choices.
type sessionRes struct {
	PlayerID   string          `json:"playerId"`
	Name       string          `json:"name"`
	Difficulty game.Difficulty `json:"difficulty"`
	TimeLimit  int             `json:"timeLimit"`
}

func toSessionRes(s game.Settings) sessionRes {
	return sessionRes{
		PlayerID:   s.PlayerID,
		Name:       s.PlayerName,
		Difficulty: s.Difficulty,
		TimeLimit:  int(s.TimeLimit / time.Second),
	}
}

// handleCreateSession validates the setup form and sets the session cookie.
// A returning player keeps their player ID.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var p sessionReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	settings := game.Settings{
		PlayerName: p.Name,
		Difficulty: game.Difficulty(p.Difficulty),
		TimeLimit:  time.Duration(p.TimeLimit) * time.Second,
	}
	if prev, err := s.sessions.FromRequest(r); err == nil {
		settings.PlayerID = prev.PlayerID
	}

	tok, settings, exp, err := s.sessions.Issue(settings)
	if errors.Is(err, game.ErrNameRequired) {
		http.Error(w, `{"error":"name_required"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("issue session")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	s.sessions.SetCookie(w, tok, exp)
	_ = json.NewEncoder(w).Encode(toSessionRes(settings))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(toSessionRes(*currentPlayer(r)))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// games

// newGameRes is returned when a game is created.
type newGameRes struct {
	GameID string        `json:"gameId"`
	State  game.Snapshot `json:"state"`
}

// handleNewGame starts a puzzle with the session's settings and runs the
// countdown immediately.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	me := currentPlayer(r)
	g, err := s.startGame(r.Context(), *me, nil)
	if err != nil {
		log.Error().Err(err).Msg("new game")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	log.Info().
		Str("gameId", g.ID).
		Str("player", me.PlayerID).
		Str("difficulty", string(me.Difficulty)).
		Dur("timeLimit", me.TimeLimit).
		Msg("game started")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, State: g.Snapshot()})
}

// startGame builds, stores and starts a game. Finished rounds are recorded
// in the results store.
func (s *Server) startGame(ctx context.Context, settings game.Settings, rng *rand.Rand, opts ...game.Option) (*game.Game, error) {
	opts = append(opts, game.WithFinishHook(s.recordResult))
	g, err := game.New(genID(), settings, s.words, rng, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		g.Close()
		return nil, err
	}
	g.Start()
	return g, nil
}

// recordResult persists a finished round. Failures are logged, not surfaced:
// the player already sees the results modal.
func (s *Server) recordResult(sum game.Summary) {
	log.Info().
		Str("gameId", sum.GameID).
		Str("player", sum.PlayerID).
		Int("score", sum.Results.Score).
		Str("rank", sum.Results.Rank).
		Bool("won", sum.Results.Won).
		Msg("game finished")
	if s.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.results.Insert(ctx, sum); err != nil {
		log.Warn().Err(err).Str("gameId", sum.GameID).Msg("record result")
	}
}

// lookupGame loads the game named in the URL, writing 404 on miss.
func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	id := chi.URLParam(r, "id")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// ownedGame is lookupGame plus an ownership check against the session.
func (s *Server) ownedGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return nil, false
	}
	if me := currentPlayer(r); me == nil || me.PlayerID != g.Settings.PlayerID {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return nil, false
	}
	return g, true
}

// handleGetGame returns the current snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// selectReq carries the cells of one drag or click sequence, in order.
type selectReq struct {
	Cells []grid.Cell `json:"cells"`
}

// selectRes is the outcome plus the updated state.
type selectRes struct {
	Match game.Match    `json:"match"`
	State game.Snapshot `json:"state"`
}

// handleSelect finalizes a selection made without the websocket.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	var p selectReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	m, err := g.Submit(p.Cells)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(selectRes{Match: m, State: g.Snapshot()})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	if err := g.Pause(); err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	if err := g.Resume(); err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// handleRestart regenerates the puzzle with the same settings. The daily
// puzzle cannot be replayed.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	if g.Daily() != "" {
		http.Error(w, `{"error":"daily_locked"}`, http.StatusConflict)
		return
	}
	if err := g.Restart(); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("restart")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// handleDeleteGame stops and forgets a game. Unfinished rounds are not
// recorded; an unfinished daily round stays until it ends.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	if g.Daily() != "" && !g.Snapshot().Status.Finished() {
		http.Error(w, `{"error":"daily_locked"}`, http.StatusConflict)
		return
	}
	if err := s.store.Delete(r.Context(), g.ID); err != nil {
		writeGameErr(w, err)
		return
	}
	log.Info().Str("gameId", g.ID).Msg("game abandoned")
	w.WriteHeader(http.StatusNoContent)
}

// mineRes lists finished rounds.
type mineRes struct {
	Games []results.Row `json:"games"`
}

// handleMine returns the player's most recent finished rounds (?limit=N).
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		_ = json.NewEncoder(w).Encode(mineRes{Games: []results.Row{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 200 {
		limit = 200
	}
	rows, err := s.results.ForPlayer(r.Context(), currentPlayer(r).PlayerID, limit)
	if err != nil {
		log.Error().Err(err).Msg("list results")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(mineRes{Games: rows})
}

// writeGameErr maps engine errors to HTTP statuses.
func writeGameErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrFinished):
		http.Error(w, `{"error":"finished"}`, http.StatusConflict)
	case errors.Is(err, game.ErrPaused):
		http.Error(w, `{"error":"paused"}`, http.StatusConflict)
	case errors.Is(err, game.ErrNotPlaying):
		http.Error(w, `{"error":"not_playing"}`, http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("game error")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
	}
}
