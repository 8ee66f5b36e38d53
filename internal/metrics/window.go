package metrics

import "time"

// Period is the reporting cadence for a run.
type Period string

const (
	Daily  Period = "daily"
	Weekly Period = "weekly"
)

// StaleDays is how far back an issue may reach before it is considered
// too old to be actionable.
const StaleDays = 365

// Window defines the temporal scope of one collection run. Constructed
// once per run, immutable thereafter.
type Window struct {
	Start       time.Time
	End         time.Time
	StaleCutoff time.Time
	Period      Period
}

// NewWindow builds a run window. Start snaps to the beginning of its day
// and End to the last instant of its day, so a daily window covers one
// full calendar day. The stale cutoff is anchored to now, not to the
// window boundaries.
func NewWindow(start, end time.Time, period Period, now time.Time) Window {
	return Window{
		Start:       truncateDay(start),
		End:         endOfDay(end),
		StaleCutoff: truncateDay(now).AddDate(0, 0, -StaleDays),
		Period:      period,
	}
}

// RunNowWindow derives the window for an immediate run: daily covers
// today only, weekly reaches back seven days.
func RunNowWindow(period Period, now time.Time) Window {
	start := now
	if period == Weekly {
		start = now.AddDate(0, 0, -7)
	}
	return NewWindow(start, now, period, now)
}

// DeltaDays returns the number of days between two instants as a
// fractional value.
func DeltaDays(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
