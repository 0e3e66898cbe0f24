package manager

import (
	"sort"
	"time"

	"snake-arcade/game/types"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// HighScore is the best finished round. Equal scores rank by shorter time.
type HighScore struct {
	Score    int           `json:"score"`
	Duration time.Duration `json:"duration"`
	RoundID  string        `json:"roundId,omitempty"`
}

// RoundRecord is one finished round.
type RoundRecord struct {
	ID        string       `json:"id"`
	StartTime time.Time    `json:"startTime"`
	EndTime   time.Time    `json:"endTime"`
	Score     int          `json:"score"`
	Reason    types.Reason `json:"reason"`
}

// Duration is how long the round lasted.
func (r RoundRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// StateManager keeps score for the current round and statistics over the
// session. Nothing here is written to disk.
type StateManager struct {
	roundID      string
	score        int
	start        time.Time
	running      bool
	highScore    HighScore
	scoreHistory []RoundRecord
}

func NewStateManager() *StateManager {
	return &StateManager{
		scoreHistory: make([]RoundRecord, 0),
	}
}

// StartRound resets the score and opens a new round.
func (sm *StateManager) StartRound(now time.Time) string {
	sm.roundID = uuid.New().String()
	sm.score = 0
	sm.start = now
	sm.running = true
	glog.V(1).Infof("round %s started", sm.roundID)
	return sm.roundID
}

// FoodConsumed bumps the score by one.
func (sm *StateManager) FoodConsumed() int {
	sm.score++
	return sm.score
}

// EndRound closes the round and reports whether it set a new high score.
// Calling it without an open round is a no-op.
func (sm *StateManager) EndRound(now time.Time, reason types.Reason) (RoundRecord, bool) {
	if !sm.running {
		return RoundRecord{}, false
	}
	sm.running = false

	record := RoundRecord{
		ID:        sm.roundID,
		StartTime: sm.start,
		EndTime:   now,
		Score:     sm.score,
		Reason:    reason,
	}
	if len(sm.scoreHistory) >= types.MaxHistory {
		sm.scoreHistory = sm.scoreHistory[1:]
	}
	sm.scoreHistory = append(sm.scoreHistory, record)

	elapsed := record.Duration()
	best := sm.highScore.RoundID == "" ||
		sm.score > sm.highScore.Score ||
		(sm.score == sm.highScore.Score && elapsed < sm.highScore.Duration)
	if best {
		sm.highScore = HighScore{Score: sm.score, Duration: elapsed, RoundID: record.ID}
	}
	glog.V(1).Infof("round %s ended: score=%d reason=%v elapsed=%v best=%v", record.ID, record.Score, reason, elapsed, best)
	return record, best
}

func (sm *StateManager) RoundID() string {
	return sm.roundID
}

func (sm *StateManager) Score() int {
	return sm.score
}

func (sm *StateManager) Running() bool {
	return sm.running
}

func (sm *StateManager) GetHighScore() HighScore {
	return sm.highScore
}

// Elapsed is the running time of the open round, or of the last one.
func (sm *StateManager) Elapsed(now time.Time) time.Duration {
	if sm.running {
		return now.Sub(sm.start)
	}
	if n := len(sm.scoreHistory); n > 0 {
		return sm.scoreHistory[n-1].Duration()
	}
	return 0
}

func (sm *StateManager) GetScoreHistory() []RoundRecord {
	out := make([]RoundRecord, len(sm.scoreHistory))
	copy(out, sm.scoreHistory)
	return out
}

func (sm *StateManager) GamesPlayed() int {
	return len(sm.scoreHistory)
}

// AverageScore over the kept history.
func (sm *StateManager) AverageScore() float64 {
	if len(sm.scoreHistory) == 0 {
		return 0
	}
	sum := 0
	for _, r := range sm.scoreHistory {
		sum += r.Score
	}
	return float64(sum) / float64(len(sm.scoreHistory))
}

// MedianScore over the kept history.
func (sm *StateManager) MedianScore() float64 {
	if len(sm.scoreHistory) == 0 {
		return 0
	}
	scores := make([]int, len(sm.scoreHistory))
	for i, r := range sm.scoreHistory {
		scores[i] = r.Score
	}
	sort.Ints(scores)
	n := len(scores)
	if n%2 == 0 {
		return float64(scores[n/2-1]+scores[n/2]) / 2
	}
	return float64(scores[n/2])
}

// MaxScore over the kept history.
func (sm *StateManager) MaxScore() int {
	maxScore := 0
	for _, r := range sm.scoreHistory {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	return maxScore
}
