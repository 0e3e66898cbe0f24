// Package orientation derives how each body segment should be drawn from the
// positions of its neighbours. It reads the body and keeps no state, so it
// can run every frame.
package orientation

import (
	"fmt"
	"math"

	"snake-arcade/game/types"
)

// Class is the sprite family of a segment.
type Class int

const (
	Head Class = iota
	Tail
	Straight
	Corner
)

func (c Class) String() string {
	switch c {
	case Head:
		return "head"
	case Tail:
		return "tail"
	case Straight:
		return "straight"
	case Corner:
		return "corner"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// CornerKind names the two sides a corner segment connects.
type CornerKind int

const (
	NoCorner CornerKind = iota
	CornerNorthEast
	CornerSouthEast
	CornerSouthWest
	CornerNorthWest
)

func (k CornerKind) String() string {
	switch k {
	case CornerNorthEast:
		return "north-east"
	case CornerSouthEast:
		return "south-east"
	case CornerSouthWest:
		return "south-west"
	case CornerNorthWest:
		return "north-west"
	}
	return "none"
}

func (c Class) MarshalText() ([]byte, error)      { return []byte(c.String()), nil }
func (k CornerKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Sprite indices into the snake texture atlas.
const (
	SpriteHead     = 116
	SpriteStraight = 117
	SpriteCorner   = 118
	SpriteTail     = 119
)

// Descriptor tells a renderer what to draw on one cell. Rotation is in
// radians, counter-clockwise, with y up.
type Descriptor struct {
	Cell     types.Cell      `json:"cell"`
	Class    Class           `json:"class"`
	Facing   types.Direction `json:"facing"`
	Axis     types.Axis      `json:"axis"`
	Corner   CornerKind      `json:"corner"`
	Rotation float64         `json:"rotation"`
	Sprite   int             `json:"sprite"`
}

// RelativeSide says where other lies as seen from origin. The y axis is
// compared first. The cells must share an edge.
func RelativeSide(origin, other types.Cell) types.Side {
	if !origin.Adjacent(other) {
		panic(fmt.Sprintf("orientation: %v and %v are not orthogonally adjacent", origin, other))
	}
	switch {
	case other.Y > origin.Y:
		return types.North
	case other.Y < origin.Y:
		return types.South
	case other.X > origin.X:
		return types.East
	default:
		return types.West
	}
}

// sideRotation turns artwork that points north toward side.
func sideRotation(s types.Side) float64 {
	switch s {
	case types.South:
		return math.Pi
	case types.East:
		return -math.Pi / 2
	case types.West:
		return math.Pi / 2
	default:
		return 0
	}
}

type pairKey [2]types.Side

func key(a, b types.Side) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

type interior struct {
	class    Class
	axis     types.Axis
	corner   CornerKind
	rotation float64
	sprite   int
}

var interiors = map[pairKey]interior{
	key(types.North, types.South): {class: Straight, axis: types.Vertical, rotation: 0, sprite: SpriteStraight},
	key(types.East, types.West):   {class: Straight, axis: types.Horizontal, rotation: math.Pi / 2, sprite: SpriteStraight},
	key(types.North, types.East):  {class: Corner, corner: CornerNorthEast, rotation: math.Pi / 2, sprite: SpriteCorner},
	key(types.South, types.East):  {class: Corner, corner: CornerSouthEast, rotation: 0, sprite: SpriteCorner},
	key(types.North, types.West):  {class: Corner, corner: CornerNorthWest, rotation: math.Pi, sprite: SpriteCorner},
	key(types.South, types.West):  {class: Corner, corner: CornerSouthWest, rotation: -math.Pi / 2, sprite: SpriteCorner},
}

// Compute returns one descriptor per segment, head first. The body must hold
// at least two cells and each consecutive pair must be adjacent.
func Compute(body []types.Cell) []Descriptor {
	n := len(body)
	if n < 2 {
		panic(fmt.Sprintf("orientation: body of length %d, need at least 2", n))
	}
	out := make([]Descriptor, n)
	out[0] = end(body[0], body[1], Head, SpriteHead)
	out[n-1] = end(body[n-1], body[n-2], Tail, SpriteTail)
	for i := 1; i < n-1; i++ {
		out[i] = Segment(body[i-1], body[i], body[i+1])
	}
	return out
}

func end(cell, next types.Cell, class Class, sprite int) Descriptor {
	side := RelativeSide(cell, next)
	return Descriptor{
		Cell:     cell,
		Class:    class,
		Facing:   side.Direction().Opposite(),
		Rotation: sideRotation(side),
		Sprite:   sprite,
	}
}

// Segment classifies an interior cell from its front and back neighbours.
func Segment(front, origin, back types.Cell) Descriptor {
	a := RelativeSide(origin, front)
	b := RelativeSide(origin, back)
	in, ok := interiors[key(a, b)]
	if !ok {
		panic(fmt.Sprintf("orientation: %v has both neighbours to the %v", origin, a))
	}
	return Descriptor{
		Cell:     origin,
		Class:    in.class,
		Facing:   a.Direction(),
		Axis:     in.axis,
		Corner:   in.corner,
		Rotation: in.rotation,
		Sprite:   in.sprite,
	}
}
