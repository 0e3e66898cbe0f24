package ai

import (
	"snake-arcade/game"
	"snake-arcade/game/types"
)

// Autopilot drives the direction gate from an Agent and, when learning,
// updates the agent from each tick.
type Autopilot struct {
	agent *Agent
	learn bool

	pending bool
	prev    State
	action  Action
}

// NewAutopilot wraps agent. With learn unset the table is only read.
func NewAutopilot(agent *Agent, learn bool) *Autopilot {
	return &Autopilot{agent: agent, learn: learn}
}

func (p *Autopilot) Agent() *Agent {
	return p.agent
}

// Decide picks the next direction for the position in snap.
func (p *Autopilot) Decide(snap game.Snapshot) types.Direction {
	s := Sense(snap)
	a := p.agent.GetAction(s)
	p.prev, p.action, p.pending = s, a, true
	return a
}

// Observe feeds the outcome of the last decided tick back to the agent and
// returns the reward it earned. snap is the state after the tick.
func (p *Autopilot) Observe(res game.Result, snap game.Snapshot) float64 {
	if !p.pending {
		return 0
	}
	terminal := res.Outcome == game.Terminated
	if terminal {
		p.pending = false
	}
	if !p.learn {
		return 0
	}

	next := Sense(snap)
	ate := false
	for _, ev := range res.Events {
		if ev.Kind == game.FoodConsumed {
			ate = true
		}
	}
	died := terminal && res.Reason != types.Filled
	r := Reward(p.prev, next, ate, died)
	p.agent.Update(p.prev, p.action, r, next, terminal)
	if terminal {
		p.agent.EndEpisode()
	}
	return r
}
