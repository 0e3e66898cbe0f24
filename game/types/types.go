package types

import (
	"fmt"
	"strings"
	"time"
)

// Cell is one grid coordinate. Y grows upward.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Step returns the neighbouring cell in direction dir.
func (c Cell) Step(dir Direction) Cell {
	return c.Add(dir.Vector())
}

// Adjacent reports whether the two cells share an edge.
func (c Cell) Adjacent(o Cell) bool {
	return ManhattanDistance(c, o) == 1
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is an absolute travel direction on the board.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Vector returns the unit step for the direction.
func (d Direction) Vector() Cell {
	switch d {
	case Up:
		return Cell{X: 0, Y: 1}
	case Down:
		return Cell{X: 0, Y: -1}
	case Left:
		return Cell{X: -1, Y: 0}
	case Right:
		return Cell{X: 1, Y: 0}
	}
	panic(fmt.Sprintf("types: invalid direction %d", int(d)))
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	panic(fmt.Sprintf("types: invalid direction %d", int(d)))
}

// TurnLeft rotates the direction 90° counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Right:
		return Up
	case Down:
		return Right
	default:
		return Down
	}
}

// TurnRight rotates the direction 90° clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	default:
		return Up
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts the lower-case direction names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Side is where a neighbouring cell lies relative to an origin cell.
type Side int

const (
	North Side = iota
	South
	East
	West
)

func (s Side) String() string {
	switch s {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Direction converts a side into the travel direction that reaches it.
func (s Side) Direction() Direction {
	switch s {
	case North:
		return Up
	case South:
		return Down
	case East:
		return Right
	default:
		return Left
	}
}

// Axis is the orientation of a straight body segment.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Reason says why a game ended.
type Reason int

const (
	NoReason Reason = iota
	HitWall
	HitSelf
	Filled // the snake covers the whole board
)

func (r Reason) String() string {
	switch r {
	case HitWall:
		return "hit-wall"
	case HitSelf:
		return "hit-self"
	case Filled:
		return "filled"
	}
	return "none"
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Speed selects the fixed tick interval.
type Speed int

const (
	Slow Speed = iota
	Regular
	Fast
)

// Interval returns the wall-clock time between two ticks.
func (s Speed) Interval() time.Duration {
	switch s {
	case Slow:
		return 150 * time.Millisecond
	case Fast:
		return 60 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

func (s Speed) String() string {
	switch s {
	case Slow:
		return "slow"
	case Fast:
		return "fast"
	default:
		return "regular"
	}
}

// ParseSpeed accepts slow, regular or fast.
func ParseSpeed(s string) (Speed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow":
		return Slow, nil
	case "regular", "":
		return Regular, nil
	case "fast":
		return Fast, nil
	}
	return Regular, fmt.Errorf("unknown speed %q", s)
}

// Settings are the player-facing game options.
type Settings struct {
	Speed        Speed
	SpeedrunMode bool
	FoodCount    int
	Skin         int
}

// DefaultSettings mirrors the menu defaults.
func DefaultSettings() Settings {
	return Settings{
		Speed:     Regular,
		FoodCount: 1,
	}
}

// Game constants
const (
	DefaultBoardSize = 20
	MaxBoardSize     = 64
	MinBoardSize     = 2
	TileSize         = 30.0 // Physical edge of one cell
	TileSpacer       = 0.0  // Gap between cells
	MaxHistory       = 200  // Rounds kept for score statistics
)

// ManhattanDistance returns |dx|+|dy| between two cells.
func ManhattanDistance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}
