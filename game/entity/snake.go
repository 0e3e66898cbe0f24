package entity

import (
	"fmt"
	"iter"

	"snake-arcade/game/types"
)

// Color is an RGB skin colour.
type Color struct {
	R, G, B uint8
}

// Palette holds the selectable snake skins.
var Palette = []Color{
	{R: 92, G: 184, B: 92},
	{R: 66, G: 139, B: 202},
	{R: 240, G: 173, B: 78},
	{R: 217, G: 83, B: 79},
	{R: 153, G: 102, B: 204},
	{R: 91, G: 192, B: 222},
	{R: 230, G: 230, B: 230},
	{R: 255, G: 105, B: 180},
}

// Skin returns the palette colour for index i, wrapping around.
func Skin(i int) Color {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// Snake is the ordered body, head first. Cells live in a ring buffer sized to
// the board so pushes and pops never reallocate.
type Snake struct {
	ring     []types.Cell
	front    int
	length   int
	occupied map[types.Cell]struct{}
}

// StartingCells returns the two-cell body used at reset, heading right.
func StartingCells(board types.Board) []types.Cell {
	x := max(1, board.Size/5)
	y := board.Size / 5
	return []types.Cell{{X: x, Y: y}, {X: x - 1, Y: y}}
}

// NewSnake builds a body from head-first cells. It panics on an empty body,
// out-of-bounds or duplicate cells and gaps between consecutive cells.
func NewSnake(board types.Board, cells ...types.Cell) *Snake {
	if len(cells) == 0 {
		panic("entity: snake body must not be empty")
	}
	if len(cells) > board.Area() {
		panic("entity: snake body larger than board")
	}
	s := &Snake{
		ring:     make([]types.Cell, board.Area()),
		occupied: make(map[types.Cell]struct{}, len(cells)),
	}
	for i, c := range cells {
		if !board.Contains(c) {
			panic(fmt.Sprintf("entity: cell %v outside board", c))
		}
		if i > 0 && !cells[i-1].Adjacent(c) {
			panic(fmt.Sprintf("entity: cells %v and %v are not adjacent", cells[i-1], c))
		}
		if s.Contains(c) {
			panic(fmt.Sprintf("entity: duplicate cell %v", c))
		}
		s.pushBack(c)
	}
	return s
}

func (s *Snake) index(i int) int {
	return (s.front + i) % len(s.ring)
}

func (s *Snake) pushBack(c types.Cell) {
	s.ring[s.index(s.length)] = c
	s.length++
	s.occupied[c] = struct{}{}
}

// Len is the number of segments.
func (s *Snake) Len() int {
	return s.length
}

// At returns segment i counted from the head.
func (s *Snake) At(i int) types.Cell {
	if i < 0 || i >= s.length {
		panic(fmt.Sprintf("entity: segment %d out of range [0,%d)", i, s.length))
	}
	return s.ring[s.index(i)]
}

// Head returns the front segment.
func (s *Snake) Head() types.Cell {
	return s.At(0)
}

// Neck returns the segment right behind the head.
func (s *Snake) Neck() (types.Cell, bool) {
	if s.length < 2 {
		return types.Cell{}, false
	}
	return s.At(1), true
}

// Tail returns the back segment.
func (s *Snake) Tail() types.Cell {
	return s.At(s.length - 1)
}

// Contains reports whether any segment sits on c.
func (s *Snake) Contains(c types.Cell) bool {
	_, ok := s.occupied[c]
	return ok
}

// PushFront adds a new head. The caller guarantees c is free.
func (s *Snake) PushFront(c types.Cell) {
	if s.length == len(s.ring) {
		panic("entity: snake already fills the board")
	}
	s.front = (s.front - 1 + len(s.ring)) % len(s.ring)
	s.ring[s.front] = c
	s.length++
	s.occupied[c] = struct{}{}
}

// PopBack removes and returns the tail.
func (s *Snake) PopBack() types.Cell {
	if s.length == 0 {
		panic("entity: pop from empty snake")
	}
	tail := s.Tail()
	s.length--
	delete(s.occupied, tail)
	return tail
}

// Cells returns a head-first copy of the body.
func (s *Snake) Cells() []types.Cell {
	out := make([]types.Cell, s.length)
	for i := range out {
		out[i] = s.ring[s.index(i)]
	}
	return out
}

// All iterates segments head first.
func (s *Snake) All() iter.Seq2[int, types.Cell] {
	return func(yield func(int, types.Cell) bool) {
		for i := 0; i < s.length; i++ {
			if !yield(i, s.ring[s.index(i)]) {
				return
			}
		}
	}
}
