// Package timefmt parses and formats match clock durations.
package timefmt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinSeconds is the shortest configurable match.
	MinSeconds = 1
	// MaxSeconds is the longest configurable match (59:59).
	MaxSeconds = 59*60 + 59
)

var (
	// ErrFormat reports text that is not of the form M:SS or MM:SS.
	ErrFormat = errors.New("expected M:SS")
	// ErrRange reports a duration outside 0:01..59:59 or seconds above 59.
	ErrRange = errors.New("duration must be between 0:01 and 59:59")
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock parses "M:SS" text into total seconds.
func ParseClock(raw string) (int, error) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return 0, ErrFormat
	}
	minutes, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, ErrFormat
	}
	seconds, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, ErrFormat
	}
	return FromParts(minutes, seconds)
}

// FromParts validates a minutes/seconds pair and returns total seconds.
func FromParts(minutes, seconds int) (int, error) {
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, ErrRange
	}
	total := minutes*60 + seconds
	if total < MinSeconds || total > MaxSeconds {
		return 0, ErrRange
	}
	return total, nil
}

// Format renders milliseconds as M:SS, rounding partial seconds up so the
// display reads 0:00 only once time has fully run out.
func Format(ms int64) string {
	total := CeilSeconds(ms)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// CeilSeconds converts milliseconds to whole seconds, rounding up. Negative
// input counts as zero.
func CeilSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}
