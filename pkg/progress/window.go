package progress

import "time"

// WeekStart returns Monday 00:00:00 of the week containing now, in now's location.
func WeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return time.Date(now.Year(), now.Month(), now.Day()-daysSinceMonday, 0, 0, 0, 0, now.Location())
}

// MonthStart returns the first day of now's month at 00:00:00, in now's location.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Summarize re-aggregates already classified items restricted to those falling
// at or after start. Delivered items are anchored on their submission time,
// pending and overdue items on their due time; items lacking the anchor are
// left out.
func Summarize(results []ItemResult, start time.Time) WindowSummary {
	summary := WindowSummary{Start: start}
	onTime := 0

	for _, r := range results {
		d := r.Disposition
		switch d.Kind {
		case KindDelivered:
			if d.SubmittedAt == nil || d.SubmittedAt.Before(start) {
				continue
			}
			summary.Delivered++
			if d.IsOnTime() {
				onTime++
			}
		case KindPending:
			if d.Due != nil && !d.Due.Before(start) {
				summary.Pending++
			}
		case KindOverdue:
			if d.Due != nil && !d.Due.Before(start) {
				summary.Overdue++
			}
		}
	}

	summary.OnTimePercent = percent(onTime, summary.Delivered)
	return summary
}
