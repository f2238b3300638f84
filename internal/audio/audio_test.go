package audio

import (
	"bytes"
	"testing"
)

func TestBellRingsOncePerTone(t *testing.T) {
	var buf bytes.Buffer
	bell := NewBell(&buf)
	bell.Play(CueGo)
	if got := buf.String(); got != "\a\a\a" {
		t.Fatalf("expected three bells for go cue, got %q", got)
	}
	buf.Reset()
	bell.Play(CueCount)
	if got := buf.String(); got != "\a" {
		t.Fatalf("expected one bell for count cue, got %q", got)
	}
}

func TestLazyDropsCuesBeforeWake(t *testing.T) {
	var buf bytes.Buffer
	built := 0
	lazy := NewLazy(func() Player {
		built++
		return NewBell(&buf)
	})

	lazy.Play(CueBuzzer)
	if buf.Len() != 0 {
		t.Fatalf("expected no sound before wake, got %q", buf.String())
	}

	lazy.Wake()
	lazy.Wake()
	if built != 1 {
		t.Fatalf("expected backend built once, got %d", built)
	}
	lazy.Play(CueBuzzer)
	if got := buf.String(); got != "\a\a" {
		t.Fatalf("expected buzzer after wake, got %q", got)
	}
}

func TestTonesCoverEveryCue(t *testing.T) {
	for _, c := range []Cue{CueCount, CueGo, CueTick, CueBuzzer} {
		if len(Tones(c)) == 0 {
			t.Fatalf("cue %s has no tones", c)
		}
	}
}
