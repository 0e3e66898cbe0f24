package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"snake-arcade/game/types"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
)

// Action is the absolute direction the agent asks for.
type Action = types.Direction

const numActions = len(types.Directions)

// Rewards for one transition.
const (
	RewardFood    = 1.0
	RewardDeath   = -1.0
	RewardCloser  = 0.5
	RewardFarther = -0.3
)

// QTable maps a state key to one value per action, indexed by direction.
type QTable map[string][numActions]float64

// Agent is a tabular Q-learning agent with epsilon-greedy exploration.
type Agent struct {
	mu sync.RWMutex

	QTable         QTable
	LearningRate   float64
	Discount       float64
	Epsilon        float64
	InitialEpsilon float64
	MinEpsilon     float64
	EpsilonDecay   float64
	Episodes       int
	TotalReward    float64

	rng *rand.Rand
}

// NewAgent returns an agent with an empty table and a source seeded from seed.
func NewAgent(seed uint64) *Agent {
	return &Agent{
		QTable:         make(QTable),
		LearningRate:   0.1,
		Discount:       0.9,
		Epsilon:        0.9,
		InitialEpsilon: 0.9,
		MinEpsilon:     0.01,
		EpsilonDecay:   0.995,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Greedy turns exploration off, for play rather than training.
func (a *Agent) Greedy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Epsilon = 0
	a.MinEpsilon = 0
}

// GetAction picks an action for s. Directions flagged as danger are never
// explored and lose ties when exploiting.
func (a *Agent) GetAction(s State) Action {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rng.Float64() < a.Epsilon {
		safe := make([]Action, 0, numActions)
		for _, d := range types.Directions {
			if !s.Danger[d] {
				safe = append(safe, d)
			}
		}
		if len(safe) == 0 {
			return types.Directions[a.rng.Intn(numActions)]
		}
		return safe[a.rng.Intn(len(safe))]
	}
	return a.bestAction(s)
}

func (a *Agent) bestAction(s State) Action {
	values := a.QTable[s.Key()]
	best := types.Directions[0]
	bestValue := math.Inf(-1)
	for _, d := range types.Directions {
		v := values[d]
		// Danger counts as a tie-breaker so an untrained table does not
		// walk into a wall.
		if s.Danger[d] {
			v -= 1e-6
		}
		if v > bestValue {
			best, bestValue = d, v
		}
	}
	return best
}

// Reward scores the move from prev to next.
func Reward(prev, next State, ate, died bool) float64 {
	switch {
	case died:
		return RewardDeath
	case ate:
		return RewardFood
	case next.FoodDistance < prev.FoodDistance:
		return RewardCloser
	case next.FoodDistance > prev.FoodDistance:
		return RewardFarther
	}
	return 0
}

// Update applies Q(s,a) += α [r + γ max Q(s',·) − Q(s,a)]. A terminal
// transition has no future value.
func (a *Agent) Update(s State, action Action, reward float64, next State, terminal bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := s.Key()
	values := a.QTable[key]

	maxNext := 0.0
	if !terminal {
		if nv, ok := a.QTable[next.Key()]; ok {
			maxNext = math.Inf(-1)
			for _, v := range nv {
				maxNext = max(maxNext, v)
			}
		}
	}

	values[action] += a.LearningRate * (reward + a.Discount*maxNext - values[action])
	a.QTable[key] = values
	a.TotalReward += reward
}

// EndEpisode counts an episode and decays epsilon.
func (a *Agent) EndEpisode() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Episodes++
	a.Epsilon = max(a.MinEpsilon, a.InitialEpsilon*math.Pow(a.EpsilonDecay, float64(a.Episodes)))
}

// States is the number of distinct states the table has seen.
func (a *Agent) States() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.QTable)
}

type agentFile struct {
	QTable   QTable  `json:"qtable"`
	Epsilon  float64 `json:"epsilon"`
	Episodes int     `json:"episodes"`
}

// SaveQTable writes the table and training progress as JSON.
func (a *Agent) SaveQTable(filename string) error {
	a.mu.RLock()
	n := len(a.QTable)
	data, err := json.MarshalIndent(agentFile{QTable: a.QTable, Epsilon: a.Epsilon, Episodes: a.Episodes}, "", "  ")
	a.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal q-table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create q-table dir: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write q-table: %w", err)
	}
	glog.V(1).Infof("saved q-table with %d states to %s", n, filename)
	return nil
}

// LoadQTable reads a table written by SaveQTable. A missing file leaves the
// agent untouched and is not an error.
func (a *Agent) LoadQTable(filename string) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		glog.V(1).Infof("no q-table at %s, starting empty", filename)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read q-table: %w", err)
	}

	var f agentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse q-table %s: %w", filename, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if f.QTable != nil {
		a.QTable = f.QTable
	}
	a.Epsilon = max(a.MinEpsilon, f.Epsilon)
	a.Episodes = f.Episodes
	glog.V(1).Infof("loaded q-table with %d states from %s", len(a.QTable), filename)
	return nil
}
