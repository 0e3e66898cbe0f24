// Package audio plays the game's sound cues. The game core never calls it
// directly; frontends pass it the events each snapshot carries.
package audio

import (
	"fmt"
	"sync"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/golang/glog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is one short sound.
type Cue int

const (
	CueApple Cue = iota
	CueGameOver
	CueWin
	CueClick
)

func (c Cue) String() string {
	switch c {
	case CueApple:
		return "apple"
	case CueGameOver:
		return "game-over"
	case CueWin:
		return "win"
	case CueClick:
		return "click"
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[Cue][]note{
	CueApple:    {{660, 50 * time.Millisecond}, {990, 70 * time.Millisecond}},
	CueGameOver: {{440, 120 * time.Millisecond}, {330, 120 * time.Millisecond}, {220, 240 * time.Millisecond}},
	CueWin:      {{523, 100 * time.Millisecond}, {659, 100 * time.Millisecond}, {784, 100 * time.Millisecond}, {1047, 200 * time.Millisecond}},
	CueClick:    {{1200, 15 * time.Millisecond}},
}

// Player mixes cues into the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	volume      float64 // log2 gain, 0 is unchanged
}

func NewPlayer(muted bool) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		muted:  muted,
		volume: -1,
	}
}

// Initialize opens the speaker. A muted player never touches the device.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || p.muted {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup drops anything still playing.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Stream synthesises the samples for c.
func Stream(c Cue, volume float64) (beep.Streamer, error) {
	notes, ok := cues[c]
	if !ok {
		return nil, fmt.Errorf("unknown cue %v", c)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("cue %v: %w", c, err)
		}
		parts = append(parts, beep.Take(sampleRate.N(n.dur), tone))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: volume}, nil
}

// Play queues c unless the player is muted or has no speaker.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted || !p.initialized {
		return
	}
	s, err := Stream(c, p.volume)
	if err != nil {
		glog.Warningf("audio: %v", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// HandleEvents maps game events to cues.
func (p *Player) HandleEvents(events []game.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case game.FoodConsumed:
			p.Play(CueApple)
		case game.GameEnded:
			if ev.Reason == types.Filled {
				p.Play(CueWin)
			} else {
				p.Play(CueGameOver)
			}
		}
	}
}
