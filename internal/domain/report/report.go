package report

import (
	"time"

	"routine_bot/internal/domain/activity"
)

// CategoryProgress holds the completion counts for one category inside a
// weekly window. Percentage is completed/total*100, or 0 when total is 0.
type CategoryProgress struct {
	Completed  int
	Total      int
	Percentage float64
}

// WeeklyProgress is the derived per-category completion summary for one
// Monday-anchored calendar week. Categories with no instances in the window
// are absent from the map, not zero-filled.
type WeeklyProgress struct {
	UserID     int64
	WeekStart  time.Time
	WeekEnd    time.Time
	Categories map[activity.Category]CategoryProgress
}

// Overall returns the summed completed/total counts across categories.
func (p *WeeklyProgress) Overall() (completed, total int) {
	for _, cp := range p.Categories {
		completed += cp.Completed
		total += cp.Total
	}
	return completed, total
}

// WeekWindow computes the Monday and Sunday (both inclusive, midnight in loc)
// of the ISO week containing reference.
func WeekWindow(reference time.Time, loc *time.Location) (start, end time.Time) {
	day := activity.DateOnly(reference, loc)
	sinceMonday := (int(day.Weekday()) + 6) % 7
	start = day.AddDate(0, 0, -sinceMonday)
	end = start.AddDate(0, 0, 6)
	return start, end
}
