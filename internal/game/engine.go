// internal/game/engine.go
//
// Core game engine for a single word-search session.
// Responsibilities:
//   - Generate the puzzle: pick words, place them, fill the grid.
//   - Drive the selection state machine from pointer gestures.
//   - Score matches and detect the win.
//   - Own the countdown; time-up with words left is a loss.
//   - Publish events to subscribers (websocket clients).
//
// All exported methods are safe for concurrent use. The countdown fires on
// its own goroutine and takes the same lock.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/timer"
)

var (
	ErrFinished   = errors.New("game finished")
	ErrPaused     = errors.New("game paused")
	ErrNotPlaying = errors.New("game not in progress")
	ErrNoWords    = errors.New("no words available")
)

// WordSource supplies candidate words for a puzzle.
type WordSource interface {
	Pick(n, maxLen int, rng *rand.Rand) []string
}

// Option customizes a Game.
type Option func(*Game)

// WithFinishHook registers fn to run once per round when it ends.
// fn runs without the game lock held.
func WithFinishHook(fn func(Summary)) Option {
	return func(g *Game) { g.onFinish = fn }
}

// WithDaily tags the game as the daily puzzle for date (YYYY-MM-DD).
func WithDaily(date string) Option {
	return func(g *Game) { g.daily = date }
}

// Game holds the state of one puzzle session.
type Game struct {
	ID       string
	Settings Settings

	mu       sync.Mutex
	src      WordSource
	rng      *rand.Rand
	daily    string
	round    int
	grid     *grid.Grid
	placed   []grid.Placement
	found    []string
	status   Status
	score    int
	sel      selection
	clock    *timer.Countdown
	onFinish func(Summary)
	subs     map[chan Event]struct{}

	startedAt  time.Time
	finishedAt time.Time
	lastActive time.Time
}

// NewRand returns a generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// SeededRand returns a deterministic generator for seed.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, binary.BigEndian.Uint64([]byte("wrdsrch!"))))
}

// New builds a game and its first puzzle. The countdown starts with Start.
func New(id string, s Settings, src WordSource, rng *rand.Rand, opts ...Option) (*Game, error) {
	if rng == nil {
		rng = NewRand()
	}
	g := &Game{
		ID:       id,
		Settings: s.Normalize(),
		src:      src,
		rng:      rng,
		sel:      newSelection(),
		subs:     make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.newRoundLocked(); err != nil {
		return nil, err
	}
	return g, nil
}

// newRoundLocked generates a fresh puzzle and countdown.
func (g *Game) newRoundLocked() error {
	candidates := g.src.Pick(WordCount, GridSize, g.rng)
	if len(candidates) == 0 {
		return ErrNoWords
	}
	res, err := grid.Generate(candidates, GridSize, g.Settings.Difficulty.Directions(), g.rng)
	if err != nil {
		return err
	}
	// a round with nothing placed could never be won
	if len(res.Placed) == 0 {
		return ErrNoWords
	}

	g.round++
	g.grid = res.Grid
	g.placed = res.Placed
	g.found = nil
	g.score = 0
	g.status = StatusPlaying
	g.sel.reset()
	g.finishedAt = time.Time{}
	g.startedAt = time.Now()
	g.lastActive = g.startedAt

	round := g.round
	g.clock = timer.New(g.Settings.TimeLimit, func() { g.timeUp(round) })
	return nil
}

// Start runs the countdown for the current round.
func (g *Game) Start() {
	g.mu.Lock()
	clock := g.clock
	g.mu.Unlock()
	clock.Start()
}

// Restart regenerates the puzzle with new words and restarts the clock,
// keeping the player's settings.
func (g *Game) Restart() error {
	g.mu.Lock()
	g.clock.Stop()
	if err := g.newRoundLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	clock := g.clock
	g.publishLocked(Event{Type: EventRestart, State: g.snapshotLocked()})
	g.mu.Unlock()

	clock.Start()
	return nil
}

// Close stops the countdown and disconnects subscribers.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clock.Stop()
	for ch := range g.subs {
		delete(g.subs, ch)
		close(ch)
	}
}

// Pause freezes the countdown while playing.
func (g *Game) Pause() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusPlaying {
		return ErrNotPlaying
	}
	g.clock.Pause()
	g.status = StatusPaused
	g.lastActive = time.Now()
	g.publishLocked(Event{Type: EventState, State: g.snapshotLocked()})
	return nil
}

// Resume continues a paused game.
func (g *Game) Resume() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusPaused {
		return ErrNotPlaying
	}
	g.clock.Resume()
	g.status = StatusPlaying
	g.lastActive = time.Now()
	g.publishLocked(Event{Type: EventState, State: g.snapshotLocked()})
	return nil
}

// ---------------------------- selection --------------------------------

// PointerDown starts a new selection owned by pointer.
func (g *Game) PointerDown(pointer int, c grid.Cell) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.selectableLocked(); err != nil {
		return err
	}
	g.sel.reset()
	g.sel.pointer = pointer
	g.sel.push(g.grid, c)
	g.lastActive = time.Now()
	return nil
}

// PointerMove extends the selection if pointer owns the gesture.
func (g *Game) PointerMove(pointer int, c grid.Cell) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.selectableLocked(); err != nil {
		return err
	}
	if g.sel.pointer != pointer {
		return nil
	}
	g.sel.push(g.grid, c)
	return nil
}

// PointerUp finalizes the gesture owned by pointer.
func (g *Game) PointerUp(pointer int) (Match, error) {
	g.mu.Lock()
	if !g.sel.active() || g.sel.pointer != pointer {
		g.mu.Unlock()
		return Match{}, nil
	}
	return g.finalizeAndUnlock()
}

// PointerCancel discards the gesture owned by pointer.
func (g *Game) PointerCancel(pointer int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sel.pointer == pointer {
		g.sel.reset()
	}
}

// PointerLeave finalizes any active gesture when the pointer leaves the grid.
func (g *Game) PointerLeave() (Match, error) {
	g.mu.Lock()
	if !g.sel.active() {
		g.mu.Unlock()
		return Match{}, nil
	}
	return g.finalizeAndUnlock()
}

// Click appends a single cell to the pending selection.
func (g *Game) Click(c grid.Cell) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.selectableLocked(); err != nil {
		return err
	}
	g.sel.push(g.grid, c)
	g.lastActive = time.Now()
	return nil
}

// Commit finalizes the pending selection regardless of which gesture built it.
func (g *Game) Commit() (Match, error) {
	g.mu.Lock()
	return g.finalizeAndUnlock()
}

// Submit checks a complete selection in one call, applying the same
// dedupe rules as a gesture. Any pending gesture is discarded.
func (g *Game) Submit(cells []grid.Cell) (Match, error) {
	g.mu.Lock()
	if err := g.selectableLocked(); err != nil {
		g.mu.Unlock()
		return Match{}, err
	}
	g.sel.reset()
	for _, c := range cells {
		g.sel.push(g.grid, c)
	}
	return g.finalizeAndUnlock()
}

// Selection returns the cells of the pending selection.
func (g *Game) Selection() []grid.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sel.snapshot()
}

func (g *Game) selectableLocked() error {
	switch {
	case g.status.Finished():
		return ErrFinished
	case g.status == StatusPaused:
		return ErrPaused
	}
	return nil
}

// finalizeAndUnlock is entered with g.mu held. It scores the selection,
// clears it, and releases the lock before running the finish hook.
func (g *Game) finalizeAndUnlock() (Match, error) {
	if err := g.selectableLocked(); err != nil {
		g.sel.reset()
		g.mu.Unlock()
		return Match{}, err
	}
	cells := g.sel.snapshot()
	g.sel.reset()
	if len(cells) == 0 {
		g.mu.Unlock()
		return Match{}, nil
	}

	g.lastActive = time.Now()
	m := Match{Word: g.grid.Word(cells), Cells: cells}
	switch {
	case g.isFoundLocked(m.Word):
		m.Already = true
	case g.isPlacedLocked(m.Word):
		m.Found = true
		m.Points = PointsPerWord
		g.found = append(g.found, m.Word)
		g.score += PointsPerWord
	default:
		m.Hint = g.nearMissLocked(m.Word)
	}

	var summary *Summary
	if m.Found && len(g.found) == len(g.placed) {
		g.clock.Stop()
		summary = g.finishLocked(StatusWon)
	}

	g.publishLocked(Event{Type: EventMatch, Match: &m, State: g.snapshotLocked()})
	if summary != nil {
		g.publishLocked(Event{Type: EventFinished, State: g.snapshotLocked()})
	}
	hook := g.onFinish
	g.mu.Unlock()

	if summary != nil && hook != nil {
		hook(*summary)
	}
	return m, nil
}

// timeUp is the countdown callback for round.
func (g *Game) timeUp(round int) {
	g.mu.Lock()
	if round != g.round || g.status.Finished() {
		g.mu.Unlock()
		return
	}
	summary := g.finishLocked(StatusLost)
	g.publishLocked(Event{Type: EventFinished, State: g.snapshotLocked()})
	hook := g.onFinish
	g.mu.Unlock()

	if hook != nil {
		hook(*summary)
	}
}

func (g *Game) finishLocked(st Status) *Summary {
	g.status = st
	g.sel.reset()
	g.finishedAt = time.Now()
	g.lastActive = g.finishedAt
	return &Summary{
		GameID:     g.ID,
		PlayerID:   g.Settings.PlayerID,
		PlayerName: g.Settings.PlayerName,
		Difficulty: g.Settings.Difficulty,
		TimeLimit:  g.Settings.TimeLimit,
		Daily:      g.daily,
		Results:    g.resultsLocked(),
		StartedAt:  g.startedAt,
		FinishedAt: g.finishedAt,
	}
}

func (g *Game) isPlacedLocked(word string) bool {
	for _, p := range g.placed {
		if p.Word == word {
			return true
		}
	}
	return false
}

func (g *Game) isFoundLocked(word string) bool {
	for _, f := range g.found {
		if f == word {
			return true
		}
	}
	return false
}

// nearMissLocked returns the first unfound placed word (length ≥ 4) one
// edit away from word.
func (g *Game) nearMissLocked(word string) string {
	if len(word) < 3 {
		return ""
	}
	for _, p := range g.placed {
		if len(p.Word) < 4 || g.isFoundLocked(p.Word) {
			continue
		}
		if levenshtein.ComputeDistance(word, p.Word) == 1 {
			return p.Word
		}
	}
	return ""
}

// ----------------------------- views -----------------------------------

// Status reports the current state.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Daily returns the date key of a daily puzzle, or "".
func (g *Game) Daily() string { return g.daily }

// Remaining reports the time left on the clock.
func (g *Game) Remaining() time.Duration {
	g.mu.Lock()
	clock := g.clock
	g.mu.Unlock()
	return clock.Remaining()
}

// LastActive is the time of the last player action or state change.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// Placed returns the words hidden in the current grid.
func (g *Game) Placed() []grid.Placement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]grid.Placement(nil), g.placed...)
}

// Snapshot returns the client view.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) resultsLocked() Results {
	return computeResults(g.score, len(g.found), len(g.placed), g.status == StatusWon)
}

func (g *Game) snapshotLocked() Snapshot {
	words := make([]string, len(g.placed))
	var foundCells []grid.Cell
	for i, p := range g.placed {
		words[i] = p.Word
		if g.isFoundLocked(p.Word) {
			foundCells = append(foundCells, p.Cells()...)
		}
	}

	s := Snapshot{
		ID:         g.ID,
		Player:     g.Settings.PlayerName,
		Difficulty: g.Settings.Difficulty,
		TimeLimit:  int(g.Settings.TimeLimit / time.Second),
		Daily:      g.daily,
		Round:      g.round,
		Rows:       g.grid.Rows(),
		Words:      words,
		Found:      append([]string{}, g.found...),
		FoundCells: foundCells,
		Selection:  g.sel.snapshot(),
		Score:      g.score,
		FoundCount: len(g.found),
		Total:      len(g.placed),
		Remaining:  ceilSeconds(g.clock.Remaining()),
		Status:     g.status,
	}
	if s.FoundCells == nil {
		s.FoundCells = []grid.Cell{}
	}
	if g.status.Finished() {
		r := g.resultsLocked()
		s.Results = &r
	}
	return s
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
