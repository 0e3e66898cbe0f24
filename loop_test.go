package main

import (
	"context"
	"testing"
	"time"

	"snake-arcade/ai"
	"snake-arcade/game"
	"snake-arcade/game/types"
)

func TestPublishMergesUnreadSnapshots(t *testing.T) {
	g := game.FromState(6, []types.Cell{{X: 1, Y: 1}, {X: 0, Y: 1}}, types.Right, []types.Cell{{X: 2, Y: 1}}, 1)
	r := NewRunner(g, time.Hour, nil)

	r.step()
	r.step()
	snap := <-r.Snapshots()

	if snap.Ticks != 2 {
		t.Errorf("ticks %d, want 2", snap.Ticks)
	}
	if len(snap.Events) == 0 || snap.Events[0] != (game.Event{Kind: game.FoodConsumed, Cell: types.Cell{X: 2, Y: 1}}) {
		t.Errorf("events %v, want the food-consumed from the first tick", snap.Events)
	}
	if len(snap.Deltas) < 4 || snap.Deltas[0] != (game.Delta{Kind: game.SegmentAdded, Cell: types.Cell{X: 2, Y: 1}}) {
		t.Errorf("deltas %v do not start with the first tick", snap.Deltas)
	}
	select {
	case extra := <-r.Snapshots():
		t.Errorf("second snapshot %+v, want one merged", extra)
	default:
	}
}

func TestRunnerPlaysUntilWall(t *testing.T) {
	g := game.FromState(4, []types.Cell{{X: 1, Y: 1}, {X: 0, Y: 1}}, types.Right, nil, 1)
	r := NewRunner(g, time.Millisecond, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for {
		select {
		case snap := <-r.Snapshots():
			for _, ev := range snap.Events {
				if ev.Kind == game.GameEnded {
					if ev.Reason != types.HitWall || snap.Phase != game.GameOver {
						t.Errorf("ended with %v in phase %v", ev.Reason, snap.Phase)
					}
					cancel()
					if err := <-done; err != nil {
						t.Errorf("Run: %v", err)
					}
					return
				}
			}
		case <-ctx.Done():
			t.Fatal("game never ended")
		}
	}
}

func TestRunnerTurnAndRestart(t *testing.T) {
	g := game.New(game.Options{Size: 10, Seed: 5})
	r := NewRunner(g, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	if snap := <-r.Snapshots(); snap.Phase != game.Menu {
		t.Fatalf("phase %v, want menu", snap.Phase)
	}
	r.Restart()
	snap := <-r.Snapshots()
	if snap.Phase != game.Playing || len(snap.Food) != 1 {
		t.Fatalf("after restart: phase %v food %v", snap.Phase, snap.Food)
	}

	r.Turn(types.Up)
	r.Restart()
	snap = <-r.Snapshots()
	if snap.Direction != types.Right {
		t.Errorf("direction %v after restart, want right", snap.Direction)
	}
}

func TestRunnerAutopilotRestarts(t *testing.T) {
	g := game.New(game.Options{Size: 5, Seed: 8})
	g.Start()
	agent := ai.NewAgent(8)
	r := NewRunner(g, time.Hour, ai.NewAutopilot(agent, true))
	r.AutoRestart = true

	for i := 0; i < 5000 && agent.Episodes < 2; i++ {
		r.step()
		select {
		case <-r.Snapshots():
		default:
		}
	}
	if agent.Episodes < 2 {
		t.Fatalf("episodes %d, want at least 2", agent.Episodes)
	}
	if g.Phase() != game.Playing {
		t.Errorf("phase %v, want playing after auto restart", g.Phase())
	}
}
