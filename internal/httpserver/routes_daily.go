// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
//   - POST /api/daily/new → start today's puzzle (creates or reuses the game)
//   - GET  /api/daily     → today's date and whether the player has played
//
// Every player gets the same grid on a given UTC date; the generator is
// seeded from date + salt and the round ignores the player's own difficulty
// and time limit. Each player can finish it once per day (enforced
// by the results table); an unfinished daily game is reused from memory.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
)

// Settings shared by every daily round.
const (
	dailyDifficulty = game.Medium
	dailyTimeLimit  = 90 * time.Second
)

// dailyServer tracks in-progress daily games.
type dailyServer struct {
	srv   *Server
	salt  string
	now   func() time.Time
	games map[string]string // playerID|date → game ID
	mu    sync.Mutex        // guards games
}

// mountDaily registers the daily routes.
func (s *Server) mountDaily(r chi.Router) {
	salt := s.opts.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	s.daily = &dailyServer{
		srv:   s,
		salt:  salt,
		now:   time.Now,
		games: make(map[string]string),
	}
	r.Post("/daily/new", s.daily.handleNew)
	r.Get("/daily", s.daily.handleStatus)
}

// dailyRes is returned by the daily endpoints.
type dailyRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	State  *game.Snapshot `json:"state,omitempty"`
}

// played reports whether the player already finished the puzzle for date.
func (d *dailyServer) played(r *http.Request, playerID, date string) bool {
	if d.srv.results == nil {
		return false
	}
	ok, err := d.srv.results.DailyPlayed(r.Context(), playerID, date)
	if err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("daily played lookup")
		return false
	}
	return ok
}

// handleStatus reports today's date and whether it has been played.
func (d *dailyServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	me := currentPlayer(r)
	date := daily.DateKey(d.now())
	_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Played: d.played(r, me.PlayerID, date)})
}

// handleNew creates or reuses today's game for the player.
//   - Already recorded for today → Played=true, no game.
//   - A live game for today → same game ID.
//   - A finished game for today → Played=true, no game.
//   - Otherwise a new seeded game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	me := currentPlayer(r)
	now := d.now()
	date := daily.DateKey(now)

	if d.played(r, me.PlayerID, date) {
		_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Played: true})
		return
	}

	key := me.PlayerID + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pruneLocked(date)

	if id, ok := d.games[key]; ok {
		g, err := d.srv.store.Get(r.Context(), id)
		switch {
		case err != nil:
			// reaped; start over
			delete(d.games, key)
		case g.Snapshot().Status.Finished():
			delete(d.games, key)
			_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Played: true})
			return
		default:
			snap := g.Snapshot()
			_ = json.NewEncoder(w).Encode(dailyRes{GameID: id, Date: date, State: &snap})
			return
		}
	}

	settings := game.Settings{
		PlayerID:   me.PlayerID,
		PlayerName: me.PlayerName,
		Difficulty: dailyDifficulty,
		TimeLimit:  dailyTimeLimit,
	}
	rng := game.SeededRand(daily.Seed(now, d.salt))
	g, err := d.srv.startGame(r.Context(), settings, rng, game.WithDaily(date))
	if err != nil {
		log.Error().Err(err).Msg("daily game")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	d.games[key] = g.ID
	log.Info().Str("gameId", g.ID).Str("player", me.PlayerID).Str("date", date).Msg("daily started")

	snap := g.Snapshot()
	_ = json.NewEncoder(w).Encode(dailyRes{GameID: g.ID, Date: date, State: &snap})
}

// pruneLocked drops entries for any date other than today.
func (d *dailyServer) pruneLocked(today string) {
	for key := range d.games {
		if !strings.HasSuffix(key, "|"+today) {
			delete(d.games, key)
		}
	}
}
