package dbtime

import "time"

// DayBounds returns [midnight, next midnight) around t in t's location.
// Session lookups for field check-ins are bucketed by day, not exact
// timestamp.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.Add(24 * time.Hour)
	return start, end
}
