package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"snake-arcade/ai"
	"snake-arcade/audio"
	"snake-arcade/game"
	"snake-arcade/server"
	"snake-arcade/tui"
	"snake-arcade/ui"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	if cfg.Train > 0 {
		agent := ai.NewAgent(cfg.Seed)
		if err := agent.LoadQTable(cfg.QTable); err != nil {
			return err
		}
		_, err := Train(ctx, cfg, agent)
		return err
	}

	if cfg.Serve != "" {
		return server.New(server.NewStore()).ListenAndServe(ctx, cfg.Serve)
	}

	g := game.New(game.Options{Size: cfg.Size, FoodCount: cfg.Settings.FoodCount, Seed: cfg.Seed})

	var pilot *ai.Autopilot
	if cfg.Autopilot {
		agent := ai.NewAgent(cfg.Seed)
		if err := agent.LoadQTable(cfg.QTable); err != nil {
			return err
		}
		agent.Greedy()
		pilot = ai.NewAutopilot(agent, false)
	}

	runner := NewRunner(g, cfg.Interval(), pilot)
	runner.AutoRestart = pilot != nil && cfg.Frontend == FrontendHeadless

	player := audio.NewPlayer(cfg.Mute || cfg.Frontend == FrontendHeadless)
	if err := player.Initialize(); err != nil {
		glog.Warningf("sound disabled: %v", err)
		player.SetMuted(true)
	}
	defer player.Cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	switch cfg.Frontend {
	case FrontendWindow:
		ui.Run(ctx, runner, cfg.Settings, player.HandleEvents)
	case FrontendTerm:
		screen, err := tcell.NewScreen()
		if err != nil {
			cancel()
			<-done
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := tui.Run(ctx, screen, runner, cfg.Settings, player.HandleEvents); err != nil {
			cancel()
			<-done
			return err
		}
	case FrontendHeadless:
		headless(ctx, runner, pilot != nil)
	}

	cancel()
	return <-done
}

// headless logs what happens instead of drawing it. Without the autopilot
// it plays one round and returns.
func headless(ctx context.Context, r *Runner, piloted bool) {
	r.Restart()
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-r.Snapshots():
			for _, ev := range snap.Events {
				switch ev.Kind {
				case game.FoodConsumed:
					glog.V(1).Infof("ate at %v, score %d", ev.Cell, snap.Score)
				case game.GameEnded:
					glog.Infof("round %s over: %v, score %d, best %d", snap.RoundID, ev.Reason, snap.Score, snap.HighScore.Score)
					if !piloted {
						return
					}
				}
			}
		}
	}
}
