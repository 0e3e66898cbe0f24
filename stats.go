package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
)

// groupSize is how many records of one level fold into a record of the
// next level.
const groupSize = 100

// EpisodeRecord is one training episode, or a group of them once the log
// has been compacted. Level 0 records are single episodes.
type EpisodeRecord struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Level        int       `json:"level"`
	Episodes     int       `json:"episodes"`
	AverageScore float64   `json:"averageScore"`
	MedianScore  float64   `json:"medianScore"`
	MaxScore     int       `json:"maxScore"`
	MinScore     int       `json:"minScore"`
	AverageTicks float64   `json:"averageTicks"`
}

// TrainingLog keeps the score history of every training run against one
// Q-table. Old episodes are folded into groups so the file stays small.
type TrainingLog struct {
	mu      sync.RWMutex
	path    string
	Records []EpisodeRecord
}

// statsPath puts the log next to the Q-table it describes.
func statsPath(qtable string) string {
	return filepath.Join(filepath.Dir(qtable), "stats.json")
}

// LoadTrainingLog reads the log at path. A missing file gives an empty log.
func LoadTrainingLog(path string) (*TrainingLog, error) {
	l := &TrainingLog{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read training log: %w", err)
	}
	if err := json.Unmarshal(data, &l.Records); err != nil {
		return nil, fmt.Errorf("parse training log %s: %w", path, err)
	}
	return l, nil
}

// Add records one finished episode.
func (l *TrainingLog) Add(score, ticks int, start, end time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Records = append(l.Records, EpisodeRecord{
		Start:        start,
		End:          end,
		Episodes:     1,
		AverageScore: float64(score),
		MedianScore:  float64(score),
		MaxScore:     score,
		MinScore:     score,
		AverageTicks: float64(ticks),
	})
	l.compact()
}

// compact folds every full run of groupSize same-level records into one
// record a level up, repeating while a level has enough records.
func (l *TrainingLog) compact() {
	sort.SliceStable(l.Records, func(i, j int) bool {
		a, b := l.Records[i], l.Records[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Start.Before(b.Start)
	})

	for level := 0; ; level++ {
		var same, rest []EpisodeRecord
		for _, r := range l.Records {
			if r.Level == level {
				same = append(same, r)
			} else {
				rest = append(rest, r)
			}
		}
		if len(same) < groupSize {
			return
		}

		full := len(same) / groupSize * groupSize
		for i := 0; i < full; i += groupSize {
			rest = append(rest, fold(same[i:i+groupSize], level+1))
		}
		l.Records = append(rest, same[full:]...)
		glog.V(2).Infof("training log: folded %d level %d records", full, level)
	}
}

func fold(group []EpisodeRecord, level int) EpisodeRecord {
	out := EpisodeRecord{
		Start:    group[0].Start,
		End:      group[0].End,
		Level:    level,
		MaxScore: group[0].MaxScore,
		MinScore: group[0].MinScore,
	}
	var score, ticks float64
	medians := make([]float64, 0, len(group))
	for _, r := range group {
		if r.Start.Before(out.Start) {
			out.Start = r.Start
		}
		if r.End.After(out.End) {
			out.End = r.End
		}
		out.MaxScore = max(out.MaxScore, r.MaxScore)
		out.MinScore = min(out.MinScore, r.MinScore)
		out.Episodes += r.Episodes
		score += r.AverageScore * float64(r.Episodes)
		ticks += r.AverageTicks * float64(r.Episodes)
		medians = append(medians, r.MedianScore)
	}
	out.AverageScore = score / float64(out.Episodes)
	out.AverageTicks = ticks / float64(out.Episodes)
	out.MedianScore = median(medians)
	return out
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 0 {
		return (v[n/2-1] + v[n/2]) / 2
	}
	return v[n/2]
}

// Episodes is the number of episodes recorded, folded or not.
func (l *TrainingLog) Episodes() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, r := range l.Records {
		n += r.Episodes
	}
	return n
}

func (l *TrainingLog) AverageScore() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total float64
	n := 0
	for _, r := range l.Records {
		total += r.AverageScore * float64(r.Episodes)
		n += r.Episodes
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func (l *TrainingLog) MaxScore() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	best := 0
	for _, r := range l.Records {
		best = max(best, r.MaxScore)
	}
	return best
}

// Save writes the log back to the file it was loaded from.
func (l *TrainingLog) Save() error {
	l.mu.RLock()
	data, err := json.Marshal(l.Records)
	l.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal training log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create training log dir: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write training log: %w", err)
	}
	return nil
}
