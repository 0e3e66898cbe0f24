package tui

import (
	"context"
	"fmt"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

// Controller is the side of the tick loop a frontend talks to.
type Controller interface {
	Turn(d types.Direction)
	Restart()
	Snapshots() <-chan game.Snapshot
}

type action int

const (
	actNone action = iota
	actTurn
	actStart
	actQuit
)

var keyDirections = map[tcell.Key]types.Direction{
	tcell.KeyUp:    types.Up,
	tcell.KeyDown:  types.Down,
	tcell.KeyLeft:  types.Left,
	tcell.KeyRight: types.Right,
}

var runeDirections = map[rune]types.Direction{
	'w': types.Up,
	's': types.Down,
	'a': types.Left,
	'd': types.Right,
}

func keyAction(ev *tcell.EventKey) (action, types.Direction) {
	if d, ok := keyDirections[ev.Key()]; ok {
		return actTurn, d
	}
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return actQuit, 0
	case tcell.KeyEnter:
		return actStart, 0
	case tcell.KeyRune:
		r := ev.Rune()
		if d, ok := runeDirections[r]; ok {
			return actTurn, d
		}
		switch r {
		case ' ':
			return actStart, 0
		case 'q':
			return actQuit, 0
		}
	}
	return actNone, 0
}

// Run draws snapshots from ctl and feeds it keys until ctx ends or the
// player quits. onEvents, if set, sees every event the game raises.
func Run(ctx context.Context, s tcell.Screen, ctl Controller, settings types.Settings, onEvents func([]game.Event)) error {
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			if k, ok := ev.(*tcell.EventKey); ok {
				select {
				case keys <- k:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	r := NewRenderer(s, settings)
	phase := game.Menu
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-ctl.Snapshots():
			if onEvents != nil && len(snap.Events) > 0 {
				onEvents(snap.Events)
			}
			phase = snap.Phase
			r.Draw(snap)
		case k := <-keys:
			act, d := keyAction(k)
			glog.V(2).Infof("key %v -> action %d", k.Name(), act)
			switch act {
			case actTurn:
				ctl.Turn(d)
			case actStart:
				if phase != game.Playing {
					ctl.Restart()
				}
			case actQuit:
				return nil
			}
		}
	}
}
