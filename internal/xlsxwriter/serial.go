package xlsxwriter

import "time"

// The 1900 date system counts a 1900-02-29 that never existed, so dates
// before 1900-03-01 are one serial lower than a linear count from
// 1899-12-30 gives. excelize stores 1899-12-31 as text and tealeg counts
// linearly, so both writers route these dates through earlySerial.
var (
	serialZero = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	leapBugDay = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// earlySerial returns the serial of the wall clock time t and true when t
// falls in [1899-12-31, 1900-03-01).
func earlySerial(t time.Time) (float64, bool) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if wall.Before(serialZero) || !wall.Before(leapBugDay) {
		return 0, false
	}
	return float64(wall.Sub(serialZero)) / float64(24*time.Hour), true
}

// dateNumFmt is the built-in format for t: a date for whole days, a date
// and time otherwise.
func dateNumFmt(t time.Time) int {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return 14
	}
	return 22
}
