package utils

import (
	"time"
)

// ISOWeekStart returns the Monday that starts the given ISO 8601 week.
// January 4th always falls in week 1, so the Monday of week 1 is found
// by walking back from it; every other week is a whole number of weeks
// later. The result is midnight UTC.
func ISOWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-wd)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// ValidISOWeek reports whether (year, week) names a real ISO week.
// Week 53 only exists in long years (e.g. 2015, 2020), so the pair is
// checked by resolving it to a date and reading the week back.
func ValidISOWeek(year, week int) bool {
	if week < 1 || week > 53 {
		return false
	}
	y, w := ISOWeekStart(year, week).ISOWeek()
	return y == year && w == week
}
