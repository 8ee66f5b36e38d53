package metrics

import (
	"testing"
	"time"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	w := NewWindow(date("2026-08-24"), date("2026-08-31"), Weekly, now)

	if !w.Start.Equal(date("2026-08-24")) {
		t.Errorf("Start = %v, want 2026-08-24 00:00", w.Start)
	}
	wantEnd := time.Date(2026, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !w.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", w.End, wantEnd)
	}
	if !w.StaleCutoff.Equal(date("2025-08-31")) {
		t.Errorf("StaleCutoff = %v, want 2025-08-31", w.StaleCutoff)
	}
	if w.Period != Weekly {
		t.Errorf("Period = %v, want weekly", w.Period)
	}
}

func TestRunNowWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	daily := RunNowWindow(Daily, now)
	if !daily.Start.Equal(date("2026-08-31")) {
		t.Errorf("daily Start = %v, want today", daily.Start)
	}

	weekly := RunNowWindow(Weekly, now)
	if !weekly.Start.Equal(date("2026-08-24")) {
		t.Errorf("weekly Start = %v, want seven days back", weekly.Start)
	}
	if weekly.End.Before(now) {
		t.Errorf("weekly End = %v, want end of today", weekly.End)
	}
}

func TestDeltaDays(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected float64
	}{
		{"WholeDays", date("2026-01-01"), date("2026-01-06"), 5},
		{"HalfDay", date("2026-01-01"), date("2026-01-01").Add(12 * time.Hour), 0.5},
		{"Zero", date("2026-01-01"), date("2026-01-01"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeltaDays(tt.from, tt.to); got != tt.expected {
				t.Errorf("DeltaDays() = %v, want %v", got, tt.expected)
			}
		})
	}
}
