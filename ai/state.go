package ai

import (
	"fmt"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

// State is what the agent sees of one board position.
type State struct {
	FoodDir      [2]int           // sign of (dx, dy) to the nearest food
	FoodDistance int              // Manhattan distance to that food
	Danger       [numActions]bool // a step this way ends the game
	Heading      types.Direction  // committed direction
}

// Key is the table key. Distance is left out so that states generalise
// across the board.
func (s State) Key() string {
	return fmt.Sprintf("%d,%d|%d%d%d%d", s.FoodDir[0], s.FoodDir[1],
		b2i(s.Danger[types.Up]), b2i(s.Danger[types.Down]),
		b2i(s.Danger[types.Left]), b2i(s.Danger[types.Right]))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Sense derives a State from a snapshot. The tail counts as danger since
// the resolver checks against the body before the tail moves.
func Sense(snap game.Snapshot) State {
	s := State{Heading: snap.Direction}
	if len(snap.Body) == 0 {
		return s
	}
	head := snap.Body[0]
	board := types.NewBoard(snap.Size)

	body := make(map[types.Cell]struct{}, len(snap.Body))
	for _, c := range snap.Body {
		body[c] = struct{}{}
	}
	for _, d := range types.Directions {
		next := head.Step(d)
		_, hit := body[next]
		s.Danger[d] = hit || !board.Contains(next)
	}

	if food, ok := nearest(head, snap.Food); ok {
		s.FoodDir = [2]int{types.Sign(food.X - head.X), types.Sign(food.Y - head.Y)}
		s.FoodDistance = types.ManhattanDistance(head, food)
	}
	return s
}

func nearest(from types.Cell, cells []types.Cell) (types.Cell, bool) {
	var best types.Cell
	dist := -1
	for _, c := range cells {
		if d := types.ManhattanDistance(from, c); dist < 0 || d < dist {
			best, dist = c, d
		}
	}
	return best, dist >= 0
}
