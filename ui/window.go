package ui

import (
	"context"

	"snake-arcade/game"
	"snake-arcade/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/glog"
)

// Controller is the side of the tick loop the window talks to.
type Controller interface {
	Turn(d types.Direction)
	Restart()
	Snapshots() <-chan game.Snapshot
}

var directionKeys = []struct {
	keys []int32
	dir  types.Direction
}{
	{[]int32{rl.KeyUp, rl.KeyW}, types.Up},
	{[]int32{rl.KeyDown, rl.KeyS}, types.Down},
	{[]int32{rl.KeyLeft, rl.KeyA}, types.Left},
	{[]int32{rl.KeyRight, rl.KeyD}, types.Right},
}

// Run opens the window and draws until it is closed, Q is pressed or ctx
// ends. raylib must stay on the calling goroutine, so call it from main.
func Run(ctx context.Context, ctl Controller, settings types.Settings, onEvents func([]game.Event)) {
	rl.InitWindow(1280, 800, "Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	renderer := NewRenderer(settings)
	var snap game.Snapshot
	select {
	case snap = <-ctl.Snapshots():
	case <-ctx.Done():
		return
	}

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil || rl.IsKeyPressed(rl.KeyQ) {
			break
		}

		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}

		for _, dk := range directionKeys {
			for _, k := range dk.keys {
				if rl.IsKeyPressed(k) {
					ctl.Turn(dk.dir)
				}
			}
		}
		if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace)) && snap.Phase != game.Playing {
			ctl.Restart()
		}

		select {
		case next := <-ctl.Snapshots():
			snap = next
			for _, ev := range snap.Events {
				if ev.Kind == game.GameEnded {
					renderer.Record(snap.Score)
					glog.V(1).Infof("round over: %v, score %d", ev.Reason, snap.Score)
				}
			}
			if onEvents != nil && len(snap.Events) > 0 {
				onEvents(snap.Events)
			}
		default:
		}

		renderer.Draw(snap)
	}
}
