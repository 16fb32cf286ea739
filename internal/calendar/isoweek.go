package calendar

import "time"

// ISOWeekNumber computes the ISO-8601 week number for a calendar date using
// the Thursday-anchoring rule: a week belongs to the year that contains its
// Thursday, so week 1 is the week with the year's first Thursday. Years can
// show up to 53 weeks.
//
// The computation normalizes to UTC midnight, shifts the date onto the
// Thursday of its own ISO week (Sunday counts as weekday 7), and divides the
// shifted day-of-year by seven, rounding up.
func ISOWeekNumber(date time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	isoWeekday := int(d.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	thursday := d.AddDate(0, 0, 4-isoWeekday)

	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	dayOfYear := int(thursday.Sub(jan1).Hours()/24) + 1
	return (dayOfYear + 6) / 7
}
