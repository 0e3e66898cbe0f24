package manager

import (
	"testing"
	"time"

	"snake-arcade/game/entity"
	"snake-arcade/game/types"
)

func TestCheckMoveOrder(t *testing.T) {
	b := types.NewBoard(4)
	cm := NewCollisionManager(b)
	snake := entity.NewSnake(b, types.Cell{X: 3, Y: 1}, types.Cell{X: 2, Y: 1}, types.Cell{X: 2, Y: 2})

	tests := []struct {
		name string
		next types.Cell
		want types.Reason
	}{
		{"x=-1", types.Cell{X: -1, Y: 0}, types.HitWall},
		{"x=N", types.Cell{X: 4, Y: 1}, types.HitWall},
		{"y=-1", types.Cell{X: 3, Y: -1}, types.HitWall},
		{"y=N", types.Cell{X: 0, Y: 4}, types.HitWall},
		{"neck", types.Cell{X: 2, Y: 1}, types.HitSelf},
		{"tail before pop", types.Cell{X: 2, Y: 2}, types.HitSelf},
		{"free", types.Cell{X: 3, Y: 2}, types.NoReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cm.CheckMove(tt.next, snake); got != tt.want {
				t.Errorf("CheckMove(%v) = %v, want %v", tt.next, got, tt.want)
			}
		})
	}
}

func TestCheckMoveFilled(t *testing.T) {
	// A 1x1 board with a single-cell snake is full; any in-bounds move is
	// impossible, so the fill check must come after wall and self.
	b := types.NewBoard(1)
	cm := NewCollisionManager(b)
	snake := entity.NewSnake(b, types.Cell{X: 0, Y: 0})
	if !cm.IsFull(snake) {
		t.Fatal("IsFull = false on a covered board")
	}
	if got := cm.CheckMove(types.Cell{X: 1, Y: 0}, snake); got != types.HitWall {
		t.Errorf("off-board move on full board = %v, want hit-wall", got)
	}
	if got := cm.CheckMove(types.Cell{X: 0, Y: 0}, snake); got != types.HitSelf {
		t.Errorf("self move on full board = %v, want hit-self", got)
	}
}

func TestSpawnSingleFreeCell(t *testing.T) {
	b := types.NewBoard(3)
	occupied := CellSet{}
	free := types.Cell{X: 2, Y: 1}
	for c := range b.Tiles() {
		if c != free {
			occupied.Add(c)
		}
	}
	for seed := uint64(1); seed <= 5; seed++ {
		fm := NewFoodManager(b, seed)
		got := fm.Spawn(1, occupied, b)
		if len(got) != 1 || got[0] != free {
			t.Fatalf("seed %d: Spawn = %v, want [%v]", seed, got, free)
		}
	}
}

func TestSpawnWithoutReplacement(t *testing.T) {
	b := types.NewBoard(4)
	fm := NewFoodManager(b, 7)
	occupied := CellSet{{X: 0, Y: 0}: {}, {X: 1, Y: 0}: {}}

	got := fm.Spawn(5, occupied, b)
	if len(got) != 5 {
		t.Fatalf("len %d, want 5", len(got))
	}
	seen := CellSet{}
	for _, c := range got {
		if occupied.Contains(c) {
			t.Errorf("spawned on occupied cell %v", c)
		}
		if seen.Contains(c) {
			t.Errorf("duplicate cell %v", c)
		}
		if !b.Contains(c) {
			t.Errorf("cell %v off board", c)
		}
		seen.Add(c)
	}
}

func TestSpawnDegradesWhenScarce(t *testing.T) {
	b := types.NewBoard(2)
	fm := NewFoodManager(b, 1)
	occupied := CellSet{{X: 0, Y: 0}: {}, {X: 1, Y: 0}: {}}
	got := fm.Spawn(10, occupied, b)
	if len(got) != 2 {
		t.Errorf("len %d, want 2 (all free cells)", len(got))
	}
	if got := fm.Spawn(0, occupied, b); len(got) != 0 {
		t.Errorf("Spawn(0) = %v, want empty", got)
	}
}

func TestSpawnDeterministicPerSeed(t *testing.T) {
	b := types.NewBoard(8)
	a := NewFoodManager(b, 42).Spawn(3, nil, b)
	c := NewFoodManager(b, 42).Spawn(3, nil, b)
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("same seed differs: %v vs %v", a, c)
		}
	}
}

func TestSpawnCoversAllCells(t *testing.T) {
	// Every free cell should be reachable; a biased draw would miss some.
	b := types.NewBoard(3)
	fm := NewFoodManager(b, 3)
	hits := CellSet{}
	for i := 0; i < 500; i++ {
		for _, c := range fm.Spawn(1, nil, b) {
			hits.Add(c)
		}
	}
	if len(hits) != b.Area() {
		t.Errorf("hit %d distinct cells, want %d", len(hits), b.Area())
	}
}

func TestFoodSet(t *testing.T) {
	b := types.NewBoard(4)
	fm := NewFoodManager(b, 1)
	snake := entity.NewSnake(b, types.Cell{X: 1, Y: 1}, types.Cell{X: 0, Y: 1})

	fm.AddFood(types.Cell{X: 3, Y: 3})
	fm.AddFood(types.Cell{X: 3, Y: 3})
	if fm.Len() != 1 {
		t.Fatalf("Len %d after duplicate add, want 1", fm.Len())
	}

	spawned := fm.Refill(2, snake)
	if len(spawned) != 2 || fm.Len() != 3 {
		t.Fatalf("Refill spawned %v, Len %d", spawned, fm.Len())
	}
	for _, c := range spawned {
		if snake.Contains(c) || c == (types.Cell{X: 3, Y: 3}) {
			t.Errorf("refill placed food on taken cell %v", c)
		}
	}

	if !fm.RemoveFood(types.Cell{X: 3, Y: 3}) {
		t.Error("RemoveFood returned false for present food")
	}
	if fm.RemoveFood(types.Cell{X: 3, Y: 3}) {
		t.Error("RemoveFood returned true for absent food")
	}
	removed := fm.Clear()
	if len(removed) != 2 || fm.Len() != 0 {
		t.Errorf("Clear removed %v, Len %d", removed, fm.Len())
	}
}

func TestStateManagerRounds(t *testing.T) {
	sm := NewStateManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := sm.EndRound(t0, types.HitWall); ok {
		t.Error("EndRound without a round should be a no-op")
	}

	id := sm.StartRound(t0)
	if id == "" {
		t.Fatal("empty round id")
	}
	sm.FoodConsumed()
	sm.FoodConsumed()
	if sm.Score() != 2 {
		t.Errorf("Score %d, want 2", sm.Score())
	}
	rec, best := sm.EndRound(t0.Add(10*time.Second), types.HitSelf)
	if !best || rec.Score != 2 || rec.ID != id {
		t.Errorf("first round: best=%v rec=%+v", best, rec)
	}

	// Same score, slower: not a new best.
	sm.StartRound(t0)
	sm.FoodConsumed()
	sm.FoodConsumed()
	if _, best := sm.EndRound(t0.Add(20*time.Second), types.HitWall); best {
		t.Error("slower tie should not beat high score")
	}

	// Same score, faster: new best.
	sm.StartRound(t0)
	sm.FoodConsumed()
	sm.FoodConsumed()
	if _, best := sm.EndRound(t0.Add(5*time.Second), types.HitWall); !best {
		t.Error("faster tie should beat high score")
	}
	if hs := sm.GetHighScore(); hs.Score != 2 || hs.Duration != 5*time.Second {
		t.Errorf("HighScore %+v, want 2 in 5s", hs)
	}

	// Lower score never wins.
	sm.StartRound(t0)
	if _, best := sm.EndRound(t0.Add(time.Second), types.HitWall); best {
		t.Error("lower score should not beat high score")
	}

	if sm.GamesPlayed() != 4 {
		t.Errorf("GamesPlayed %d, want 4", sm.GamesPlayed())
	}
	if sm.MaxScore() != 2 {
		t.Errorf("MaxScore %d, want 2", sm.MaxScore())
	}
	if got := sm.AverageScore(); got != 1.5 {
		t.Errorf("AverageScore %v, want 1.5", got)
	}
	if got := sm.MedianScore(); got != 2 {
		t.Errorf("MedianScore %v, want 2", got)
	}
	if got := sm.Elapsed(t0.Add(time.Hour)); got != time.Second {
		t.Errorf("Elapsed after end %v, want last round duration 1s", got)
	}
}

func TestStateManagerHistoryCap(t *testing.T) {
	sm := NewStateManager()
	now := time.Now()
	for i := 0; i < types.MaxHistory+5; i++ {
		sm.StartRound(now)
		sm.EndRound(now, types.HitWall)
	}
	if sm.GamesPlayed() != types.MaxHistory {
		t.Errorf("GamesPlayed %d, want %d", sm.GamesPlayed(), types.MaxHistory)
	}
}

func TestFoodListRowMajor(t *testing.T) {
	fm := NewFoodManager(types.NewBoard(6), 1)
	for _, c := range []types.Cell{{X: 5, Y: 5}, {X: 0, Y: 0}, {X: 3, Y: 2}, {X: 1, Y: 2}} {
		fm.AddFood(c)
	}
	// Swap-remove reorders the backing list.
	fm.RemoveFood(types.Cell{X: 0, Y: 0})
	fm.AddFood(types.Cell{X: 0, Y: 0})

	want := []types.Cell{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 5, Y: 5}}
	got := fm.GetFoodList()
	if len(got) != len(want) {
		t.Fatalf("GetFoodList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GetFoodList() = %v, want %v", got, want)
		}
	}
}
