package dateutil

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD form used as attendance document ids.
const KeyLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) in local timezone for the given time.
// This normalizes any time to the same day in local timezone for date-only comparison.
func StartOfDay(t time.Time) time.Time {
	localTime := t.Local()
	return time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, time.Local)
}

// ToKey produces the YYYY-MM-DD key from the local year/month/day of t.
func ToKey(t time.Time) string {
	return t.Local().Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD key and returns midnight local time of that day.
// Dates typed into inputs and dates taken from timestamps round-trip identically:
// ToKey(ParseKey(s)) == s for any canonical s.
func ParseKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", s, err)
	}
	return t, nil
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths returns t shifted by n calendar months, clamping to the last day
// of the target month when the source day does not exist there
// (Jan 31 + 1 month = Feb 28/29, never Mar 2).
func AddMonths(t time.Time, n int) time.Time {
	local := t.Local()
	year, month, day := local.Year(), int(local.Month())+n, local.Day()

	firstOfTarget := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	if last := daysInMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.Local)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// MonthBounds returns the first day of t's month and the first day of the
// following month, both at midnight local.
func MonthBounds(t time.Time) (start, end time.Time) {
	local := t.Local()
	start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// ValidateNotFutureDate validates that a date is not in the future.
// It compares only the DATE (not time of day). Treats "today" as allowed.
func ValidateNotFutureDate(d time.Time) error {
	todayDay := StartOfDay(time.Now())
	paymentDay := StartOfDay(d)

	if paymentDay.After(todayDay) {
		return fmt.Errorf("payment date cannot be in the future")
	}

	return nil
}

func daysInMonth(firstOfMonth time.Time) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month()+1, 0, 0, 0, 0, 0, time.Local).Day()
}
