package game

import "github.com/robalobadob/wordsearch/internal/grid"

// noPointer marks a selection not owned by any pointer gesture.
const noPointer = -1

// selection accumulates the cells of one gesture in touch order.
type selection struct {
	pointer int
	cells   []grid.Cell
}

func newSelection() selection { return selection{pointer: noPointer} }

func (s *selection) active() bool { return s.pointer != noPointer }

func (s *selection) reset() {
	s.pointer = noPointer
	s.cells = nil
}

// push appends c unless it is outside g, repeats the last cell, or is
// already part of the selection.
func (s *selection) push(g *grid.Grid, c grid.Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	for _, have := range s.cells {
		if have == c {
			return false
		}
	}
	s.cells = append(s.cells, c)
	return true
}

func (s *selection) snapshot() []grid.Cell {
	return append([]grid.Cell{}, s.cells...)
}
