// Package calendar holds the pure date arithmetic behind attendance
// aggregation: business-day enumeration, month ranges, and the clamping of
// enrollment windows to a query range.
package calendar

import "time"

// Normalize truncates t to midnight UTC so dates compare by calendar day.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t falls Monday through Friday. No holiday
// calendar is consulted here; blocked days are subtracted by the caller.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDays returns every Monday–Friday date in [start, end] inclusive,
// ascending. Returns nil when start is after end.
func BusinessDays(start, end time.Time) []time.Time {
	start = Normalize(start)
	end = Normalize(end)
	if start.After(end) {
		return nil
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// MonthRange returns the first and last calendar day of the given month.
// Every query range starts on the 1st; there is no special-cased start day.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// EffectiveWindow clamps a student's enrollment window to the query range.
// The window is half-open on withdrawal: the withdrawal date itself is not
// owed, so the clamped end is withdrawnOn minus one day. The returned ok is
// false when the clamped interval is empty or inverted.
func EffectiveWindow(enrolledOn time.Time, withdrawnOn *time.Time, rangeStart, rangeEnd time.Time) (start, end time.Time, ok bool) {
	start = Normalize(rangeStart)
	end = Normalize(rangeEnd)

	if e := Normalize(enrolledOn); e.After(start) {
		start = e
	}
	if withdrawnOn != nil {
		if w := Normalize(*withdrawnOn).AddDate(0, 0, -1); w.Before(end) {
			end = w
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Contains reports whether day lies in [start, end] inclusive. All three are
// expected to be normalized dates.
func Contains(start, end, day time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
