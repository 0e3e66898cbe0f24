// Package scene keeps the renderer's view of the board in sync with the
// game by applying deltas instead of redrawing from scratch.
package scene

import (
	"maps"
	"slices"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/golang/glog"
)

// Kind is what occupies a cell in the scene.
type Kind int

const (
	Empty Kind = iota
	Segment
	Food
)

func (k Kind) String() string {
	switch k {
	case Segment:
		return "segment"
	case Food:
		return "food"
	}
	return "empty"
}

// Scene mirrors the drawables a renderer holds.
type Scene struct {
	board types.Board
	cells map[types.Cell]Kind
}

func New(board types.Board) *Scene {
	return &Scene{board: board, cells: make(map[types.Cell]Kind)}
}

// Load rebuilds the scene from a full snapshot.
func (s *Scene) Load(snap game.Snapshot) {
	clear(s.cells)
	for _, c := range snap.Food {
		s.cells[c] = Food
	}
	for _, c := range snap.Body {
		s.cells[c] = Segment
	}
}

// Apply replays deltas in order. A removal only clears the cell when it
// still holds the kind being removed, so a head that moves onto food and
// the matching FoodRemoved leave the segment in place.
func (s *Scene) Apply(deltas []game.Delta) {
	for _, d := range deltas {
		switch d.Kind {
		case game.SegmentAdded:
			s.cells[d.Cell] = Segment
		case game.FoodAdded:
			s.cells[d.Cell] = Food
		case game.SegmentRemoved:
			s.remove(d.Cell, Segment)
		case game.FoodRemoved:
			s.remove(d.Cell, Food)
		}
	}
}

func (s *Scene) remove(c types.Cell, k Kind) {
	if s.cells[c] != k {
		glog.V(3).Infof("scene: drop %v at %v ignored, cell holds %v", k, c, s.cells[c])
		return
	}
	delete(s.cells, c)
}

// At reports what is drawn on c.
func (s *Scene) At(c types.Cell) Kind {
	return s.cells[c]
}

// Count returns how many cells hold kind k.
func (s *Scene) Count(k Kind) int {
	n := 0
	for _, v := range s.cells {
		if v == k {
			n++
		}
	}
	return n
}

// Cells lists the occupied cells in row-major order.
func (s *Scene) Cells() []types.Cell {
	keys := slices.Collect(maps.Keys(s.cells))
	slices.SortFunc(keys, func(a, b types.Cell) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return keys
}

func (s *Scene) Board() types.Board {
	return s.board
}
