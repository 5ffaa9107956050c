// Package datemath holds the calendar arithmetic behind alert scheduling.
//
// Earnings dates are calendar dates. They are carried as time.Time values
// pinned to midnight UTC, and every computation here normalises its inputs
// the same way so that the hour a job happens to run never changes a result.
package datemath

import "time"

const Layout = "2006-01-02"

// Day returns the calendar date of t, as read in t's own location, pinned to
// midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date.
func Today(now time.Time) time.Time {
	return Day(now.UTC())
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Parse(value string) (time.Time, error) {
	return time.ParseInLocation(Layout, value, time.UTC)
}

func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// ScheduledSendDate is the date a Before alert fires: daysBefore calendar days
// ahead of the earnings date.
func ScheduledSendDate(earningsDate time.Time, daysBefore int) time.Time {
	return Day(earningsDate).AddDate(0, 0, -daysBefore)
}

// TriggerDate is the date an After alert becomes due. A zero offset makes the
// earnings date itself the trigger date.
func TriggerDate(earningsDate time.Time, daysAfter int) time.Time {
	return Day(earningsDate).AddDate(0, 0, daysAfter)
}

// IsDue reports whether triggerDate is on or before today, date-only.
func IsDue(triggerDate, today time.Time) bool {
	return !Day(triggerDate).After(Day(today))
}

// IsFuture reports whether candidate is strictly after now at full precision.
func IsFuture(candidate, now time.Time) bool {
	return candidate.After(now)
}

// SendInstant places a calendar date at a fixed UTC hour of day.
func SendInstant(date time.Time, hourUTC int) time.Time {
	return Day(date).Add(time.Duration(hourUTC) * time.Hour)
}
