package domain

import "time"

// NextDaily returns the first moment strictly after now at which the wall clock
// in loc reads hour:minute. The result is in UTC.
func NextDaily(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		// Rebuild from the date so DST shifts keep the wall clock.
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next.UTC()
}
