package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTrainingLogFoldsGroups(t *testing.T) {
	l, err := LoadTrainingLog(filepath.Join(t.TempDir(), "stats.json"))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < groupSize+5; i++ {
		at := start.Add(time.Duration(i) * time.Second)
		l.Add(i%10, 50, at, at.Add(time.Second))
	}

	if got := l.Episodes(); got != groupSize+5 {
		t.Errorf("Episodes = %d, want %d", got, groupSize+5)
	}
	if got := len(l.Records); got != 6 {
		t.Fatalf("records = %d, want one group plus 5 singles", got)
	}
	var group *EpisodeRecord
	for i := range l.Records {
		if l.Records[i].Level == 1 {
			group = &l.Records[i]
		}
	}
	if group == nil {
		t.Fatal("no level 1 record")
	}
	if group.Episodes != groupSize || group.MaxScore != 9 || group.MinScore != 0 {
		t.Errorf("group %+v", *group)
	}
	if group.AverageScore != 4.5 || group.AverageTicks != 50 {
		t.Errorf("group averages %v / %v", group.AverageScore, group.AverageTicks)
	}
	if !group.Start.Equal(start) {
		t.Errorf("group start %v, want %v", group.Start, start)
	}
	if l.MaxScore() != 9 {
		t.Errorf("MaxScore = %d", l.MaxScore())
	}
}

func TestTrainingLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	l, err := LoadTrainingLog(path)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	l.Add(3, 10, now, now)
	l.Add(5, 20, now, now)
	if err := l.Save(); err != nil {
		t.Fatal(err)
	}

	back, err := LoadTrainingLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Episodes() != 2 || back.AverageScore() != 4 {
		t.Errorf("reloaded %d episodes, average %v", back.Episodes(), back.AverageScore())
	}
}

func TestTrainingLogBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTrainingLog(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestMedian(t *testing.T) {
	for _, tc := range []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{3}, 3},
		{[]float64{4, 1, 3}, 3},
		{[]float64{4, 1, 3, 2}, 2.5},
	} {
		if got := median(tc.in); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
