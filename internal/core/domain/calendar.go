package domain

import "time"

// calendarDate strips the time of day in loc.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOverdue is true when today's calendar date is on or after the due date's.
// A loan due today is already overdue.
func IsOverdue(due, now time.Time, loc *time.Location) bool {
	return !calendarDate(now, loc).Before(calendarDate(due, loc))
}

// OverdueDays is the whole calendar days elapsed since due, never negative.
func OverdueDays(due, now time.Time, loc *time.Location) int {
	diff := calendarDate(now, loc).Sub(calendarDate(due, loc))
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
