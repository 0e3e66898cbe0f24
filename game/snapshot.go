package game

import (
	"time"

	"snake-arcade/game/manager"
	"snake-arcade/game/orientation"
	"snake-arcade/game/types"
)

// Snapshot is a deep copy of the visible game state. Frontends and the
// server read snapshots and never touch the Game itself.
type Snapshot struct {
	Size        int                      `json:"size"`
	Phase       Phase                    `json:"phase"`
	Body        []types.Cell             `json:"body"`
	Food        []types.Cell             `json:"food"`
	Direction   types.Direction          `json:"direction"`
	Score       int                      `json:"score"`
	HighScore   manager.HighScore        `json:"highScore"`
	Elapsed     time.Duration            `json:"elapsed"`
	Reason      types.Reason             `json:"reason,omitempty"`
	Ticks       int                      `json:"ticks"`
	RoundID     string                   `json:"roundId"`
	Orientation []orientation.Descriptor `json:"orientation"`

	// Deltas and Events carry what happened since the previous snapshot
	// the reader saw. Snapshot leaves them empty; publishers fill them.
	Deltas []Delta `json:"deltas,omitempty"`
	Events []Event `json:"events,omitempty"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	body := g.snake.Cells()
	var desc []orientation.Descriptor
	if len(body) >= 2 {
		desc = orientation.Compute(body)
	}
	return Snapshot{
		Size:        g.board.Size,
		Phase:       g.Phase(),
		Body:        body,
		Food:        g.food.GetFoodList(),
		Direction:   g.gate.Current(),
		Score:       g.state.Score(),
		HighScore:   g.state.GetHighScore(),
		Elapsed:     g.state.Elapsed(g.clock()),
		Reason:      g.reason,
		Ticks:       g.ticks,
		RoundID:     g.state.RoundID(),
		Orientation: desc,
	}
}
