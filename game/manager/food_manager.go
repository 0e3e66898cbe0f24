package manager

import (
	"slices"

	"snake-arcade/game/types"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
)

// Occupancy answers whether a cell is taken.
type Occupancy interface {
	Contains(c types.Cell) bool
}

// CellSet is a plain set of cells.
type CellSet map[types.Cell]struct{}

func (s CellSet) Contains(c types.Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Add(c types.Cell) {
	s[c] = struct{}{}
}

type union []Occupancy

func (u union) Contains(c types.Cell) bool {
	for _, o := range u {
		if o != nil && o.Contains(c) {
			return true
		}
	}
	return false
}

// Union combines several occupancies into one.
func Union(sets ...Occupancy) Occupancy {
	return union(sets)
}

// FoodManager owns the food on the board and places new food on free cells.
type FoodManager struct {
	board    types.Board
	foodList []types.Cell
	rng      *rand.Rand
}

// NewFoodManager places food with a source seeded from seed, so a given seed
// replays the same placements.
func NewFoodManager(board types.Board, seed uint64) *FoodManager {
	return &FoodManager{
		board:    board,
		foodList: make([]types.Cell, 0),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Spawn draws up to count distinct free cells uniformly at random. When fewer
// cells are free than requested it returns all of them.
func (fm *FoodManager) Spawn(count int, occupied Occupancy, board types.Board) []types.Cell {
	if count <= 0 {
		return nil
	}
	free := make([]types.Cell, 0, board.Area())
	for c := range board.Tiles() {
		if occupied == nil || !occupied.Contains(c) {
			free = append(free, c)
		}
	}
	if count > len(free) {
		glog.V(2).Infof("food: %d requested, only %d free cells", count, len(free))
		count = len(free)
	}

	// Partial Fisher-Yates: the first count slots end up a uniform sample.
	for i := 0; i < count; i++ {
		j := i + fm.rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
	}
	return free[:count:count]
}

// Refill spawns count new food items avoiding the given occupancy and the
// food already on the board, adds them and returns them.
func (fm *FoodManager) Refill(count int, occupied Occupancy) []types.Cell {
	spawned := fm.Spawn(count, Union(occupied, fm), fm.board)
	for _, c := range spawned {
		fm.AddFood(c)
	}
	if len(spawned) > 0 {
		glog.V(2).Infof("food: new food at %v", spawned)
	}
	return spawned
}

// Contains reports whether c holds food.
func (fm *FoodManager) Contains(c types.Cell) bool {
	for _, f := range fm.foodList {
		if f == c {
			return true
		}
	}
	return false
}

// GetFoodList returns a copy of the food cells in row-major order.
func (fm *FoodManager) GetFoodList() []types.Cell {
	out := slices.Clone(fm.foodList)
	slices.SortFunc(out, func(a, b types.Cell) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

func (fm *FoodManager) Len() int {
	return len(fm.foodList)
}

func (fm *FoodManager) AddFood(food types.Cell) {
	if fm.Contains(food) {
		return
	}
	fm.foodList = append(fm.foodList, food)
}

// RemoveFood deletes food at c and reports whether there was any.
func (fm *FoodManager) RemoveFood(food types.Cell) bool {
	for i, f := range fm.foodList {
		if f == food {
			// Remove food from list by swapping with last element and truncating
			fm.foodList[i] = fm.foodList[len(fm.foodList)-1]
			fm.foodList = fm.foodList[:len(fm.foodList)-1]
			return true
		}
	}
	return false
}

// Clear drops all food and returns what was removed.
func (fm *FoodManager) Clear() []types.Cell {
	removed := fm.foodList
	fm.foodList = make([]types.Cell, 0)
	return removed
}
