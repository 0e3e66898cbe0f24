package game

import (
	"fmt"
	"time"

	"snake-arcade/game/entity"
	"snake-arcade/game/manager"
	"snake-arcade/game/orientation"
	"snake-arcade/game/types"

	"github.com/golang/glog"
)

// Outcome is what one tick did.
type Outcome int

const (
	Continue Outcome = iota
	Grew
	Terminated
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Grew:
		return "grew"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Phase is the coarse screen state around the resolver.
type Phase int

const (
	Menu Phase = iota
	Playing
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case GameOver:
		return "game-over"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// DeltaKind tags a render delta.
type DeltaKind int

const (
	SegmentAdded DeltaKind = iota
	SegmentRemoved
	FoodAdded
	FoodRemoved
)

func (k DeltaKind) String() string {
	switch k {
	case SegmentAdded:
		return "segment-added"
	case SegmentRemoved:
		return "segment-removed"
	case FoodAdded:
		return "food-added"
	case FoodRemoved:
		return "food-removed"
	}
	return fmt.Sprintf("delta(%d)", int(k))
}

func (o Outcome) MarshalText() ([]byte, error)   { return []byte(o.String()), nil }
func (p Phase) MarshalText() ([]byte, error)     { return []byte(p.String()), nil }
func (k DeltaKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Delta asks the renderer to add or drop the drawable on one cell.
type Delta struct {
	Kind DeltaKind  `json:"kind"`
	Cell types.Cell `json:"cell"`
}

// EventKind tags a signal for score, UI and audio.
type EventKind int

const (
	FoodConsumed EventKind = iota
	GameEnded
)

func (k EventKind) String() string {
	if k == GameEnded {
		return "game-ended"
	}
	return "food-consumed"
}

// Event is a signal raised by a tick. Cell is set for FoodConsumed, Reason
// for GameEnded.
type Event struct {
	Kind   EventKind    `json:"kind"`
	Cell   types.Cell   `json:"cell"`
	Reason types.Reason `json:"reason,omitempty"`
}

// Result is everything one tick produced.
type Result struct {
	Outcome Outcome      `json:"outcome"`
	Reason  types.Reason `json:"reason,omitempty"`
	Head    types.Cell   `json:"head"`
	Vacated *types.Cell  `json:"vacated,omitempty"`
	Deltas  []Delta      `json:"deltas"`
	Events  []Event      `json:"events"`
}

// Options configure a new game. Zero values pick the defaults.
type Options struct {
	Size      int
	FoodCount int
	Seed      uint64
	Clock     func() time.Time
}

// Game is the whole simulation state. Only Tick, Start, Reset and
// SetDirection mutate it; it is not safe for concurrent use.
type Game struct {
	board     types.Board
	snake     *entity.Snake
	gate      *entity.DirectionGate
	food      *manager.FoodManager
	collision *manager.CollisionManager
	state     *manager.StateManager
	foodCount int
	clock     func() time.Time

	started    bool
	terminated bool
	reason     types.Reason
	ticks      int
}

// New builds a game in the Menu phase with the starting body and no food.
func New(opts Options) *Game {
	if opts.Size == 0 {
		opts.Size = types.DefaultBoardSize
	}
	if opts.FoodCount <= 0 {
		opts.FoodCount = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	board := types.NewBoard(opts.Size)
	g := &Game{
		board:     board,
		food:      manager.NewFoodManager(board, opts.Seed),
		collision: manager.NewCollisionManager(board),
		state:     manager.NewStateManager(),
		foodCount: opts.FoodCount,
		clock:     opts.Clock,
	}
	g.snake = entity.NewSnake(board, entity.StartingCells(board)...)
	g.gate = entity.NewDirectionGate(g.snake, entity.DefaultDirection)
	return g
}

// FromState builds a game already Playing from an explicit body, direction
// and food. The body needs at least two cells.
func FromState(size int, body []types.Cell, dir types.Direction, food []types.Cell, seed uint64) *Game {
	if len(body) < 2 {
		panic("game: body needs at least two cells")
	}
	g := New(Options{Size: size, FoodCount: max(1, len(food)), Seed: seed})
	g.snake = entity.NewSnake(g.board, body...)
	g.gate = entity.NewDirectionGate(g.snake, entity.DefaultDirection)
	if !g.gate.Set(dir) {
		panic(fmt.Sprintf("game: direction %v points into the neck", dir))
	}
	for _, f := range food {
		if g.snake.Contains(f) || !g.board.Contains(f) {
			panic(fmt.Sprintf("game: food %v overlaps body or lies off board", f))
		}
		g.food.AddFood(f)
	}
	g.started = true
	g.state.StartRound(g.clock())
	return g
}

// Reset puts the body back to its two starting cells, restores the default
// direction, clears all food and returns the resolver to Playing with a
// fresh scoring round. An unfinished round is closed first. The returned
// deltas tell the renderer what to drop and add.
func (g *Game) Reset() []Delta {
	deltas := make([]Delta, 0, g.snake.Len()+g.food.Len()+2)
	for _, c := range g.snake.Cells() {
		deltas = append(deltas, Delta{Kind: SegmentRemoved, Cell: c})
	}
	for _, c := range g.food.Clear() {
		deltas = append(deltas, Delta{Kind: FoodRemoved, Cell: c})
	}

	if g.state.Running() {
		g.state.EndRound(g.clock(), types.NoReason)
	}

	g.snake = entity.NewSnake(g.board, entity.StartingCells(g.board)...)
	g.gate.Guard(g.snake)
	g.gate.Reset()
	g.terminated = false
	g.reason = types.NoReason
	g.ticks = 0
	g.started = true
	g.state.StartRound(g.clock())

	for _, c := range g.snake.Cells() {
		deltas = append(deltas, Delta{Kind: SegmentAdded, Cell: c})
	}
	return deltas
}

// Start resets the game and lays the opening food.
func (g *Game) Start() []Delta {
	deltas := g.Reset()
	for _, c := range g.food.Refill(g.foodCount, g.snake) {
		deltas = append(deltas, Delta{Kind: FoodAdded, Cell: c})
	}
	glog.V(1).Infof("game started on %dx%d board", g.board.Size, g.board.Size)
	return deltas
}

// SetDirection forwards a direction command to the gate.
func (g *Game) SetDirection(d types.Direction) bool {
	ok := g.gate.Set(d)
	if !ok {
		glog.V(2).Infof("direction %v rejected: reverses into neck", d)
	}
	return ok
}

// Tick advances the simulation by one step. Before the first Start it is a
// no-op. Once terminated it keeps reporting the same reason and changes
// nothing until Reset or Start.
func (g *Game) Tick() Result {
	if g.snake.Len() == 0 {
		panic("game: tick on empty body")
	}
	if !g.started {
		return Result{Outcome: Continue, Head: g.snake.Head()}
	}
	if g.terminated {
		return Result{Outcome: Terminated, Reason: g.reason, Head: g.snake.Head()}
	}
	g.ticks++

	next := g.snake.Head().Step(g.gate.Current())
	if reason := g.collision.CheckMove(next, g.snake); reason != types.NoReason {
		return g.terminate(Result{Head: g.snake.Head()}, reason)
	}

	g.snake.PushFront(next)
	res := Result{
		Outcome: Continue,
		Head:    next,
		Deltas:  []Delta{{Kind: SegmentAdded, Cell: next}},
	}

	if g.collision.IsFoodCollision(next, g.food) {
		g.food.RemoveFood(next)
		g.state.FoodConsumed()
		res.Outcome = Grew
		res.Deltas = append(res.Deltas, Delta{Kind: FoodRemoved, Cell: next})
		res.Events = append(res.Events, Event{Kind: FoodConsumed, Cell: next})
		glog.V(2).Infof("ate food at %v, length %d", next, g.snake.Len())

		if g.collision.IsFull(g.snake) {
			return g.terminate(res, types.Filled)
		}
		for _, c := range g.food.Refill(1, g.snake) {
			res.Deltas = append(res.Deltas, Delta{Kind: FoodAdded, Cell: c})
		}
		return res
	}

	tail := g.snake.PopBack()
	res.Vacated = &tail
	res.Deltas = append(res.Deltas, Delta{Kind: SegmentRemoved, Cell: tail})
	return res
}

func (g *Game) terminate(res Result, reason types.Reason) Result {
	g.terminated = true
	g.reason = reason
	res.Outcome = Terminated
	res.Reason = reason
	res.Events = append(res.Events, Event{Kind: GameEnded, Reason: reason})
	g.state.EndRound(g.clock(), reason)
	glog.V(1).Infof("game over after %d ticks: %v", g.ticks, reason)
	return res
}

// Phase reports Menu before the first start, then Playing or GameOver.
func (g *Game) Phase() Phase {
	switch {
	case !g.started:
		return Menu
	case g.terminated:
		return GameOver
	default:
		return Playing
	}
}

func (g *Game) Board() types.Board {
	return g.board
}

func (g *Game) Snake() *entity.Snake {
	return g.snake
}

func (g *Game) Direction() types.Direction {
	return g.gate.Current()
}

func (g *Game) Food() []types.Cell {
	return g.food.GetFoodList()
}

func (g *Game) Stats() *manager.StateManager {
	return g.state
}

func (g *Game) Terminated() (types.Reason, bool) {
	return g.reason, g.terminated
}

func (g *Game) Ticks() int {
	return g.ticks
}

// Orientation returns the render descriptors for the current body.
func (g *Game) Orientation() []orientation.Descriptor {
	return orientation.Compute(g.snake.Cells())
}
