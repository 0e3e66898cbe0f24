package types

import "iter"

// Board is the bounded square grid. It is immutable once built.
type Board struct {
	Size     int
	TileSize float64
	Spacer   float64
}

// NewBoard builds a board of size×size cells with the default tile metrics.
func NewBoard(size int) Board {
	if size <= 0 {
		panic("types: board size must be positive")
	}
	return Board{
		Size:     size,
		TileSize: TileSize,
		Spacer:   TileSpacer,
	}
}

// Area is the number of cells on the board.
func (b Board) Area() int {
	return b.Size * b.Size
}

// PhysicalSize is the edge length of the whole board in pixels.
func (b Board) PhysicalSize() float64 {
	return float64(b.Size)*b.TileSize + float64(b.Size+1)*b.Spacer
}

// Contains reports whether c lies inside [0,Size)×[0,Size).
func (b Board) Contains(c Cell) bool {
	return c.X >= 0 && c.X < b.Size && c.Y >= 0 && c.Y < b.Size
}

// CellToPhysical maps a cell to the centre of its tile. The board centre is
// the origin and y grows upward.
func (b Board) CellToPhysical(c Cell) (float64, float64) {
	return b.axisToPhysical(c.X), b.axisToPhysical(c.Y)
}

func (b Board) axisToPhysical(pos int) float64 {
	offset := -b.PhysicalSize()/2 + 0.5*b.TileSize
	return offset + float64(pos)*b.TileSize + float64(pos+1)*b.Spacer
}

// Tiles yields every cell in row-major order.
func (b Board) Tiles() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for y := 0; y < b.Size; y++ {
			for x := 0; x < b.Size; x++ {
				if !yield(Cell{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
