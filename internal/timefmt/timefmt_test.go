package timefmt

import (
	"errors"
	"testing"
)

func TestParseClockValid(t *testing.T) {
	cases := map[string]int{
		"0:01":   1,
		"1:30":   90,
		"2:00":   120,
		"09:05":  545,
		" 5:00 ": 300,
		"59:59":  3599,
	}
	for raw, want := range cases {
		got, err := ParseClock(raw)
		if err != nil {
			t.Fatalf("ParseClock(%q): unexpected error %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "90", "1:3", "1:300", "100:00", "a:bc", "1.30", "-1:00", "1:30:00"} {
		if _, err := ParseClock(raw); !errors.Is(err, ErrFormat) {
			t.Fatalf("ParseClock(%q): expected ErrFormat, got %v", raw, err)
		}
	}
}

func TestParseClockRejectsOutOfRange(t *testing.T) {
	for _, raw := range []string{"0:00", "1:60", "0:99", "60:00", "99:59"} {
		if _, err := ParseClock(raw); !errors.Is(err, ErrRange) {
			t.Fatalf("ParseClock(%q): expected ErrRange, got %v", raw, err)
		}
	}
}

func TestFromParts(t *testing.T) {
	if got, err := FromParts(59, 59); err != nil || got != MaxSeconds {
		t.Fatalf("FromParts(59, 59) = %d, %v", got, err)
	}
	if _, err := FromParts(0, 0); !errors.Is(err, ErrRange) {
		t.Fatalf("expected range error for zero duration, got %v", err)
	}
	if _, err := FromParts(-1, 30); !errors.Is(err, ErrRange) {
		t.Fatalf("expected range error for negative minutes, got %v", err)
	}
}

func TestFormatRoundsUp(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{-50, "0:00"},
		{1, "0:01"},
		{999, "0:01"},
		{1000, "0:01"},
		{1001, "0:02"},
		{90000, "1:30"},
		{3599000, "59:59"},
	}
	for _, tc := range cases {
		if got := Format(tc.ms); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
