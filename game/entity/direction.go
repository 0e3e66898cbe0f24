package entity

import "snake-arcade/game/types"

// DefaultDirection is the committed direction after a reset.
const DefaultDirection = types.Right

// DirectionGate holds the committed travel direction for the next tick and
// refuses a turn straight back into the neck.
type DirectionGate struct {
	snake   *Snake
	current types.Direction
	initial types.Direction
}

// NewDirectionGate guards the given body, starting in direction initial.
func NewDirectionGate(snake *Snake, initial types.Direction) *DirectionGate {
	return &DirectionGate{
		snake:   snake,
		current: initial,
		initial: initial,
	}
}

// Set commits requested unless its step from the head lands on the neck, in
// which case the previous commitment is kept. It reports whether the request
// was taken.
func (g *DirectionGate) Set(requested types.Direction) bool {
	if neck, ok := g.snake.Neck(); ok && g.snake.Head().Step(requested) == neck {
		return false
	}
	g.current = requested
	return true
}

// Current is the direction the next tick will move in.
func (g *DirectionGate) Current() types.Direction {
	return g.current
}

// Reset restores the initial direction.
func (g *DirectionGate) Reset() {
	g.current = g.initial
}

// Guard points the gate at a new body, used when the body is rebuilt.
func (g *DirectionGate) Guard(snake *Snake) {
	g.snake = snake
}
