// Package model defines shared data structures.
package model

import "time"

// Phase is the discrete state of a match clock.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePrestart
	PhaseRunning
	PhasePaused
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePrestart:
		return "prestart"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config defines clock settings.
type Config struct {
	DurationSeconds int
	LeadIn          time.Duration
	Sound           bool
	Record          bool
	LogLevel        string
}

// Match outcomes stored in the match log.
const (
	OutcomeFinished  = "finished"
	OutcomeAbandoned = "abandoned"
)

// MatchRecord captures a match that left play.
type MatchRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	ConfiguredMs int64
	ElapsedMs    int64
	Pauses       int
	Outcome      string
}

// HistoryConfig defines filters for the match log.
type HistoryConfig struct {
	Since   *time.Time
	Last    int
	Outcome string
}
