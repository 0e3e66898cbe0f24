package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"snake-arcade/game/types"
)

// ErrInvalidConfig wraps every flag validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Frontend selects how the game is shown.
type Frontend string

const (
	FrontendWindow   Frontend = "window"
	FrontendTerm     Frontend = "term"
	FrontendHeadless Frontend = "headless"
)

// Config is everything the command line controls.
type Config struct {
	Size      int
	Settings  types.Settings
	Seed      uint64
	Frontend  Frontend
	Autopilot bool
	QTable    string
	Train     int
	Serve     string
	Mute      bool
}

// Interval is the tick period for the configured speed.
func (c Config) Interval() time.Duration {
	return c.Settings.Speed.Interval()
}

// parseConfig reads args into a Config. glog's flags are expected to be
// registered on fs already when fs is flag.CommandLine.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var (
		cfg      Config
		speed    string
		frontend string
		seed     int64
	)
	def := types.DefaultSettings()

	fs.IntVar(&cfg.Size, "size", types.DefaultBoardSize, "board size N, the board is N×N cells")
	fs.StringVar(&speed, "speed", def.Speed.String(), "tick speed: slow, regular or fast")
	fs.BoolVar(&cfg.Settings.SpeedrunMode, "speedrun", def.SpeedrunMode, "show a running timer and break high score ties on time")
	fs.IntVar(&cfg.Settings.FoodCount, "food", def.FoodCount, "number of food items on the board at once")
	fs.Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	fs.StringVar(&frontend, "frontend", string(FrontendWindow), "window, term or headless")
	fs.IntVar(&cfg.Settings.Skin, "skin", def.Skin, "snake skin index")
	fs.BoolVar(&cfg.Autopilot, "autopilot", false, "let the Q-learning agent steer")
	fs.StringVar(&cfg.QTable, "qtable", "data/qtable.json", "Q-table file used by -autopilot and -train")
	fs.IntVar(&cfg.Train, "train", 0, "run N headless training episodes and exit")
	fs.StringVar(&cfg.Serve, "serve", "", "serve the HTTP/WebSocket API on this address, e.g. :8080")
	fs.BoolVar(&cfg.Mute, "mute", false, "disable sound")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Settings.Speed, err = types.ParseSpeed(speed); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Frontend = Frontend(frontend)
	switch cfg.Frontend {
	case FrontendWindow, FrontendTerm, FrontendHeadless:
	default:
		return Config{}, fmt.Errorf("%w: unknown frontend %q", ErrInvalidConfig, frontend)
	}
	if cfg.Size < types.MinBoardSize || cfg.Size > types.MaxBoardSize {
		return Config{}, fmt.Errorf("%w: size %d outside [%d, %d]", ErrInvalidConfig, cfg.Size, types.MinBoardSize, types.MaxBoardSize)
	}
	if cfg.Settings.FoodCount < 1 || cfg.Settings.FoodCount > cfg.Size*cfg.Size-2 {
		return Config{}, fmt.Errorf("%w: food %d must be between 1 and %d", ErrInvalidConfig, cfg.Settings.FoodCount, cfg.Size*cfg.Size-2)
	}
	if cfg.Train < 0 {
		return Config{}, fmt.Errorf("%w: negative -train %d", ErrInvalidConfig, cfg.Train)
	}
	if seed < 0 {
		return Config{}, fmt.Errorf("%w: negative -seed %d", ErrInvalidConfig, seed)
	}
	cfg.Seed = uint64(seed)
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

// newFlagSet returns a silent flag set for tests and embedding.
func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
