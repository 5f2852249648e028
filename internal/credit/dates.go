package credit

import "time"

// NextDueDate returns the due day in the calendar month following prev.
// A due day the shorter month does not have is clamped to that month's last
// day, so dueDay=31 yields Feb 28 (or 29 in a leap year).
func NextDueDate(prev time.Time, dueDay int) time.Time {
	firstOfNext := time.Date(prev.Year(), prev.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	day := dueDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts the calendar days from one date to another, ignoring any
// time-of-day component. Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
