// internal/game/types.go
//
// Core type definitions for the word-search game engine.
// Defines:
//   - Status: lifecycle of a game (playing → won/lost, with paused in between).
//   - Difficulty: selects which placement directions the grid uses.
//   - Settings: what the player chose on the setup page.
//   - Match: outcome of finalizing one selection.
//   - Snapshot / Results: JSON views sent to the browser.

package game

import (
	"errors"
	"strings"
	"time"

	"github.com/robalobadob/wordsearch/internal/grid"
)

// Status is the coarse game state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Finished reports whether the game has ended.
func (s Status) Finished() bool { return s == StatusWon || s == StatusLost }

// Difficulty controls the direction set used for placement.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts easy/medium/hard in any case.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, true
	}
	return "", false
}

// Directions returns the placement directions for d. Unknown values get
// the easy set.
func (d Difficulty) Directions() []grid.Direction {
	switch d {
	case Hard:
		return []grid.Direction{grid.Horizontal, grid.Vertical, grid.DiagonalDown, grid.DiagonalBack}
	case Medium:
		return []grid.Direction{grid.Horizontal, grid.Vertical, grid.DiagonalDown}
	}
	return []grid.Direction{grid.Horizontal, grid.Vertical}
}

const (
	GridSize      = grid.DefaultSize
	WordCount     = 10
	PointsPerWord = 10

	DefaultTimeLimit = 30 * time.Second
)

// TimeLimits are the durations offered on the setup page.
var TimeLimits = []time.Duration{30 * time.Second, 60 * time.Second, 90 * time.Second}

// TimeLimitFromSeconds maps a setup choice to a duration, falling back to
// DefaultTimeLimit for anything not offered.
func TimeLimitFromSeconds(secs int) time.Duration {
	d := time.Duration(secs) * time.Second
	for _, tl := range TimeLimits {
		if tl == d {
			return d
		}
	}
	return DefaultTimeLimit
}

// Settings are the player's choices from the setup page.
type Settings struct {
	PlayerID   string        `json:"playerId"`
	PlayerName string        `json:"name"`
	Difficulty Difficulty    `json:"difficulty"`
	TimeLimit  time.Duration `json:"-"`
}

var ErrNameRequired = errors.New("player name is required")

// Normalize trims the name and fills defaults for difficulty and time.
func (s Settings) Normalize() Settings {
	s.PlayerName = strings.TrimSpace(s.PlayerName)
	if d, ok := ParseDifficulty(string(s.Difficulty)); ok {
		s.Difficulty = d
	} else {
		s.Difficulty = Easy
	}
	s.TimeLimit = TimeLimitFromSeconds(int(s.TimeLimit / time.Second))
	return s
}

// Validate requires a player name, as the setup page does.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.PlayerName) == "" {
		return ErrNameRequired
	}
	return nil
}

// Match is the outcome of finalizing a selection.
type Match struct {
	Word    string      `json:"word"`
	Cells   []grid.Cell `json:"cells"`
	Found   bool        `json:"found"`             // newly found by this selection
	Already bool        `json:"already,omitempty"` // a placed word found earlier
	Points  int         `json:"points"`
	Hint    string      `json:"hint,omitempty"` // unfound word one edit away
}

// Results summarize a finished game for the results modal.
type Results struct {
	Score   int    `json:"score"`
	Rank    string `json:"rank"`
	Found   int    `json:"found"`
	Total   int    `json:"total"`
	Oranges int    `json:"oranges"`
	Bonus   bool   `json:"bonus"`
	Won     bool   `json:"won"`
}

// Snapshot is the full client view of a game.
type Snapshot struct {
	ID         string      `json:"id"`
	Player     string      `json:"player"`
	Difficulty Difficulty  `json:"difficulty"`
	TimeLimit  int         `json:"timeLimit"`
	Daily      string      `json:"daily,omitempty"`
	Round      int         `json:"round"`
	Rows       []string    `json:"rows"`
	Words      []string    `json:"words"`
	Found      []string    `json:"found"`
	FoundCells []grid.Cell `json:"foundCells"`
	Selection  []grid.Cell `json:"selection"`
	Score      int         `json:"score"`
	FoundCount int         `json:"foundCount"`
	Total      int         `json:"total"`
	Remaining  int         `json:"remaining"`
	Status     Status      `json:"status"`
	Results    *Results    `json:"results,omitempty"`
}

// Summary is handed to the finish hook for persistence.
type Summary struct {
	GameID     string
	PlayerID   string
	PlayerName string
	Difficulty Difficulty
	TimeLimit  time.Duration
	Daily      string
	Results    Results
	StartedAt  time.Time
	FinishedAt time.Time
}
