// Package dateutil keeps every calendar computation of the service in one
// place so that live queries and retroactive aggregation derive weekdays
// identically.
package dateutil

import "time"

// StartOfDay truncates t to local midnight. Habit creation dates and day
// rows must never carry a time-of-day component.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekDay returns the zero-based weekday code of t, 0 = Sunday. Matches
// Postgres EXTRACT(DOW ...), which the summary query relies on.
func WeekDay(t time.Time) int {
	return int(t.Weekday())
}
