// Package audio defines the clock's sound cues and the players that emit them.
package audio

import (
	"io"
	"sync"
	"time"
)

// Cue identifies a sound the clock can make.
type Cue int

const (
	// CueCount is the short buzz on each of 3, 2, 1.
	CueCount Cue = iota
	// CueGo is the triple buzz on GO!.
	CueGo
	// CueTick is the click played during the final ten seconds.
	CueTick
	// CueBuzzer is the long end-of-match buzzer.
	CueBuzzer
)

func (c Cue) String() string {
	switch c {
	case CueCount:
		return "count"
	case CueGo:
		return "go"
	case CueTick:
		return "tick"
	case CueBuzzer:
		return "buzzer"
	default:
		return "unknown"
	}
}

// Tone is one square-wave note of a cue, starting Delay after the cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Delay    time.Duration
}

// TickInterval is how often CueTick repeats while the warning is active.
const TickInterval = 250 * time.Millisecond

// Tones returns the notes that make up a cue.
func Tones(c Cue) []Tone {
	switch c {
	case CueCount:
		return []Tone{{Freq: 140, Duration: 280 * time.Millisecond}}
	case CueGo:
		return []Tone{
			{Freq: 170, Duration: 110 * time.Millisecond},
			{Freq: 190, Duration: 110 * time.Millisecond, Delay: 120 * time.Millisecond},
			{Freq: 210, Duration: 110 * time.Millisecond, Delay: 240 * time.Millisecond},
		}
	case CueTick:
		return []Tone{{Freq: 6, Duration: 40 * time.Millisecond}}
	case CueBuzzer:
		return []Tone{
			{Freq: 120, Duration: 700 * time.Millisecond},
			{Freq: 100, Duration: 700 * time.Millisecond, Delay: 20 * time.Millisecond},
		}
	default:
		return nil
	}
}

// Player emits cues. Wake is called on every user gesture so backends that
// need an interaction before producing sound can initialise or resume.
type Player interface {
	Wake()
	Play(c Cue)
}

// Nop is a Player that stays silent.
type Nop struct{}

// Wake implements Player.
func (Nop) Wake() {}

// Play implements Player.
func (Nop) Play(Cue) {}

// Bell rings the terminal bell once per distinct note of a cue. Notes closer
// together than the terminal can ring collapse into one.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing BEL characters to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Wake implements Player.
func (b *Bell) Wake() {}

// Play implements Player.
func (b *Bell) Play(c Cue) {
	tones := Tones(c)
	if len(tones) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	buf := make([]byte, len(tones))
	for i := range buf {
		buf[i] = '\a'
	}
	if _, err := b.w.Write(buf); err != nil {
		// Best-effort bell.
		_ = err
	}
}

// Lazy defers building its backend until the first Wake. Cues played before
// that are dropped, matching platforms that refuse audio before interaction.
type Lazy struct {
	once    sync.Once
	build   func() Player
	backend Player
}

// NewLazy returns a Lazy player that calls build on first Wake.
func NewLazy(build func() Player) *Lazy {
	return &Lazy{build: build}
}

// Wake implements Player.
func (l *Lazy) Wake() {
	l.once.Do(func() {
		l.backend = l.build()
	})
	if l.backend != nil {
		l.backend.Wake()
	}
}

// Play implements Player.
func (l *Lazy) Play(c Cue) {
	if l.backend == nil {
		return
	}
	l.backend.Play(c)
}
