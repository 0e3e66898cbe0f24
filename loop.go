package main

import (
	"context"
	"time"

	"snake-arcade/ai"
	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/golang/glog"
)

// Runner owns a Game on a single goroutine and advances it on a fixed
// interval. Frontends talk to it only through channels.
type Runner struct {
	game     *game.Game
	interval time.Duration
	pilot    *ai.Autopilot

	// AutoRestart starts a new round as soon as one ends.
	AutoRestart bool

	dirs    chan types.Direction
	restart chan struct{}
	snaps   chan game.Snapshot
}

// NewRunner drives g every interval. pilot may be nil.
func NewRunner(g *game.Game, interval time.Duration, pilot *ai.Autopilot) *Runner {
	return &Runner{
		game:     g,
		interval: interval,
		pilot:    pilot,
		dirs:     make(chan types.Direction, 4),
		restart:  make(chan struct{}, 1),
		snaps:    make(chan game.Snapshot, 1),
	}
}

// Turn queues a direction request. Requests beyond the buffer are dropped.
func (r *Runner) Turn(d types.Direction) {
	select {
	case r.dirs <- d:
	default:
		glog.V(2).Infof("direction %v dropped, queue full", d)
	}
}

// Restart asks for a fresh round with new food.
func (r *Runner) Restart() {
	select {
	case r.restart <- struct{}{}:
	default:
	}
}

// Snapshots delivers the latest state. A snapshot that is replaced before
// it is read hands its deltas and events on to its successor.
func (r *Runner) Snapshots() <-chan game.Snapshot {
	return r.snaps
}

// Run blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.publish(nil, nil)
	for {
		select {
		case <-ctx.Done():
			glog.V(1).Infof("runner stopped after %d ticks", r.game.Ticks())
			return nil
		case d := <-r.dirs:
			if r.pilot == nil {
				r.game.SetDirection(d)
			}
		case <-r.restart:
			r.publish(r.game.Start(), nil)
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) step() {
	if r.game.Phase() != game.Playing {
		return
	}
	if r.pilot != nil {
		r.game.SetDirection(r.pilot.Decide(r.game.Snapshot()))
	}
	res := r.game.Tick()
	if r.pilot != nil {
		r.pilot.Observe(res, r.game.Snapshot())
	}
	r.publish(res.Deltas, res.Events)

	if res.Outcome == game.Terminated && r.AutoRestart {
		r.publish(r.game.Start(), nil)
	}
}

func (r *Runner) publish(deltas []game.Delta, events []game.Event) {
	snap := r.game.Snapshot()
	select {
	case old := <-r.snaps:
		snap.Deltas = append(old.Deltas, deltas...)
		snap.Events = append(old.Events, events...)
	default:
		snap.Deltas = deltas
		snap.Events = events
	}
	// Run is the only sender and the buffer was just emptied.
	r.snaps <- snap
}
