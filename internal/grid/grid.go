// internal/grid/grid.go
//
// Letter grid primitives for the word-search puzzle.
// Defines:
//   - Direction: the four placement directions (H, V, D1 ↘, D2 ↙).
//   - Cell: a (row, col) coordinate.
//   - Placement: where a hidden word lives in the grid.
//   - Grid: a square matrix of uppercase letters.

package grid

import (
	"encoding/json"
	"errors"
	"strings"
)

// Direction is the step a word takes from its first letter.
type Direction string

const (
	Horizontal   Direction = "H"  // left to right
	Vertical     Direction = "V"  // top to bottom
	DiagonalDown Direction = "D1" // ↘
	DiagonalBack Direction = "D2" // ↙
)

// AllDirections lists every direction the generator knows.
var AllDirections = []Direction{Horizontal, Vertical, DiagonalDown, DiagonalBack}

// step returns the row/col delta applied per letter.
func (d Direction) step() (dr, dc int) {
	switch d {
	case Horizontal:
		return 0, 1
	case Vertical:
		return 1, 0
	case DiagonalDown:
		return 1, 1
	case DiagonalBack:
		return 1, -1
	}
	return 0, 0
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	dr, dc := d.step()
	return dr != 0 || dc != 0
}

// Cell addresses one letter of the grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Placement records a word hidden in the grid.
type Placement struct {
	Word string    `json:"word"`
	Row  int       `json:"row"`
	Col  int       `json:"col"`
	Dir  Direction `json:"dir"`
}

// Cells returns the cells covered by the placement, first letter first.
func (p Placement) Cells() []Cell {
	dr, dc := p.Dir.step()
	out := make([]Cell, len(p.Word))
	for i := range out {
		out[i] = Cell{Row: p.Row + i*dr, Col: p.Col + i*dc}
	}
	return out
}

// Grid is a size×size matrix of letters. A zero byte marks an empty cell
// until the generator fills it.
type Grid struct {
	size  int
	cells [][]byte
}

// New returns an empty grid.
func New(size int) *Grid {
	cells := make([][]byte, size)
	for r := range cells {
		cells[r] = make([]byte, size)
	}
	return &Grid{size: size, cells: cells}
}

// fromRows builds a grid from equal-length rows of letters.
func fromRows(rows []string) (*Grid, error) {
	g := New(len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			return nil, errors.New("grid: rows must form a square")
		}
		copy(g.cells[r], strings.ToUpper(row))
	}
	return g, nil
}

// Size is the number of rows (and columns).
func (g *Grid) Size() int { return g.size }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < g.size && c.Col < g.size
}

// At returns the letter at c, or 0 when c is outside the grid or empty.
func (g *Grid) At(c Cell) byte {
	if !g.InBounds(c) {
		return 0
	}
	return g.cells[c.Row][c.Col]
}

func (g *Grid) set(c Cell, b byte) { g.cells[c.Row][c.Col] = b }

// Word joins the letters under cells in order.
func (g *Grid) Word(cells []Cell) string {
	var sb strings.Builder
	sb.Grow(len(cells))
	for _, c := range cells {
		if b := g.At(c); b != 0 {
			sb.WriteByte(b)
		}
	}
	return strings.ToUpper(sb.String())
}

// Rows renders the grid as one string per row.
func (g *Grid) Rows() []string {
	out := make([]string, g.size)
	for r, row := range g.cells {
		out[r] = string(row)
	}
	return out
}

// MarshalJSON encodes the grid as its rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}
