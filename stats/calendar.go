package stats

import (
	"sort"
	"time"
)

// CalendarEntry is one day of the activity calendar.
type CalendarEntry struct {
	Date       string
	Solved     int
	Attempts   int
	DayOfWeek  int
	WeekOfYear int
}

// BuildCalendar flattens the daily activity map into entries sorted by
// ascending date. Days without activity are not filled in.
func BuildCalendar(daily map[string]DayActivity) []CalendarEntry {
	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	// "2006-01-02" sorts lexicographically in date order
	sort.Strings(dates)

	entries := make([]CalendarEntry, 0, len(dates))
	for _, date := range dates {
		day := daily[date]
		entries = append(entries, CalendarEntry{
			Date:       date,
			Solved:     day.Solved,
			Attempts:   day.Attempts,
			DayOfWeek:  day.DayOfWeek,
			WeekOfYear: day.WeekOfYear,
		})
	}
	return entries
}

// weekOfYear numbers weeks from 1, each starting on Sunday; the week that
// contains January 1st is week 1.
func weekOfYear(day time.Time) int {
	jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
	pastDays := day.YearDay() - 1
	return (pastDays+int(jan1.Weekday()))/7 + 1
}
