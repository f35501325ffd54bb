package series

import "time"

// AddMonths advances a date by n calendar months, clamping the day to the
// last day of the target month: Jan 31 + 1 month is Feb 28 (29 in leap
// years), never Mar 2. Year boundaries roll over normally. The time of day
// and location are preserved.
func AddMonths(d time.Time, n int) time.Time {
	year, month := d.Year(), int(d.Month())+n
	// Normalize month into 1..12, borrowing from the year.
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}

	day := d.Day()
	if last := lastDayOfMonth(year, time.Month(month)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month), day,
		d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
