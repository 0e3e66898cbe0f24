package main

import (
	"context"
	"fmt"
	"time"

	"snake-arcade/ai"
	"snake-arcade/game"

	"github.com/golang/glog"
)

// TrainingStats summarises a training run.
type TrainingStats struct {
	Episodes  int
	BestScore int
	Average   float64
	States    int
}

// maxEpisodeTicks bounds an episode whose snake circles without eating.
func maxEpisodeTicks(size int) int {
	return size * size * 50
}

// Train plays cfg.Train episodes headless with a learning autopilot and
// saves the Q-table every saveEvery episodes and at the end.
func Train(ctx context.Context, cfg Config, agent *ai.Agent) (TrainingStats, error) {
	const saveEvery = 100

	g := game.New(game.Options{Size: cfg.Size, FoodCount: cfg.Settings.FoodCount, Seed: cfg.Seed})
	pilot := ai.NewAutopilot(agent, true)
	history, err := LoadTrainingLog(statsPath(cfg.QTable))
	if err != nil {
		return TrainingStats{}, err
	}

	var stats TrainingStats
	total := 0
	limit := maxEpisodeTicks(cfg.Size)
	for ep := 0; ep < cfg.Train; ep++ {
		if err := ctx.Err(); err != nil {
			glog.Warningf("training interrupted after %d episodes", ep)
			break
		}
		g.Start()
		start := time.Now()
		for g.Phase() == game.Playing && g.Ticks() < limit {
			g.SetDirection(pilot.Decide(g.Snapshot()))
			pilot.Observe(g.Tick(), g.Snapshot())
		}
		if g.Phase() == game.Playing {
			// Out of ticks: close the episode without a terminal update.
			agent.EndEpisode()
		}

		score := g.Stats().Score()
		history.Add(score, g.Ticks(), start, time.Now())
		total += score
		stats.Episodes++
		stats.BestScore = max(stats.BestScore, score)

		if stats.Episodes%saveEvery == 0 {
			glog.Infof("episode %d: best %d, average %.2f, epsilon %.3f, %d states",
				stats.Episodes, stats.BestScore, float64(total)/float64(stats.Episodes), agent.Epsilon, agent.States())
			if err := agent.SaveQTable(cfg.QTable); err != nil {
				glog.Errorf("save q-table: %v", err)
			}
			if err := history.Save(); err != nil {
				glog.Errorf("save training log: %v", err)
			}
		}
	}

	if stats.Episodes > 0 {
		stats.Average = float64(total) / float64(stats.Episodes)
	}
	stats.States = agent.States()
	if err := agent.SaveQTable(cfg.QTable); err != nil {
		return stats, fmt.Errorf("final save: %w", err)
	}
	if err := history.Save(); err != nil {
		return stats, fmt.Errorf("final save: %w", err)
	}
	glog.Infof("training done: %d episodes, best %d, average %.2f (all runs: %d episodes, best %d, average %.2f)",
		stats.Episodes, stats.BestScore, stats.Average, history.Episodes(), history.MaxScore(), history.AverageScore())
	return stats, nil
}
