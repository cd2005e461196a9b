// internal/grid/generate.go
//
// Randomized word placement.
//
// Algorithm:
//   - Shuffle the candidate words.
//   - For each word, try up to MaxAttempts random (direction, row, col)
//     triples. A placement fits when every letter stays in bounds and lands
//     on an empty cell or on the same letter. The first fit wins.
//   - Words that never fit are skipped.
//   - Fill whatever is still empty with random letters A–Z.
//
// All randomness comes from the supplied *rand.Rand, so a seeded source
// reproduces the same puzzle.

package grid

import (
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	// DefaultSize is the side length of a standard puzzle.
	DefaultSize = 10

	// MaxAttempts bounds the random search per word.
	MaxAttempts = 50

	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	ErrBadSize      = errors.New("grid: size must be positive")
	ErrNoDirections = errors.New("grid: at least one valid direction is required")
)

// Result is a filled grid and the words that made it in.
type Result struct {
	Grid   *Grid       `json:"grid"`
	Placed []Placement `json:"placed"`
}

// Words returns the placed words in placement order.
func (r Result) Words() []string {
	out := make([]string, len(r.Placed))
	for i, p := range r.Placed {
		out[i] = p.Word
	}
	return out
}

// Generate places words onto an empty size×size grid using dirs and fills
// the rest with random letters.
func Generate(words []string, size int, dirs []Direction, rng *rand.Rand) (Result, error) {
	if size <= 0 {
		return Result{}, ErrBadSize
	}
	valid := make([]Direction, 0, len(dirs))
	for _, d := range dirs {
		if d.Valid() {
			valid = append(valid, d)
		}
	}
	if len(valid) == 0 {
		return Result{}, ErrNoDirections
	}

	shuffled := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		shuffled = append(shuffled, w)
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	g := New(size)
	placed := make([]Placement, 0, len(shuffled))

	for _, w := range shuffled {
		for attempt := 0; attempt < MaxAttempts; attempt++ {
			p := Placement{
				Word: w,
				Dir:  valid[rng.IntN(len(valid))],
				Row:  rng.IntN(size),
				Col:  rng.IntN(size),
			}
			if g.canPlace(p) {
				g.place(p)
				placed = append(placed, p)
				break
			}
		}
	}

	g.fill(rng)
	return Result{Grid: g, Placed: placed}, nil
}

// canPlace checks bounds and letter collisions for p.
func (g *Grid) canPlace(p Placement) bool {
	for i, c := range p.Cells() {
		if !g.InBounds(c) {
			return false
		}
		if cur := g.At(c); cur != 0 && cur != p.Word[i] {
			return false
		}
	}
	return true
}

func (g *Grid) place(p Placement) {
	for i, c := range p.Cells() {
		g.set(c, p.Word[i])
	}
}

// fill writes a random letter into every empty cell.
func (g *Grid) fill(rng *rand.Rand) {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.cells[r][c] == 0 {
				g.cells[r][c] = letters[rng.IntN(len(letters))]
			}
		}
	}
}
