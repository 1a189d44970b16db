package progress

import "time"

const (
	defaultDueHour   = 23
	defaultDueMinute = 59
	defaultDueSecond = 59
)

// ResolveDue combines a due date and an optional time of day into a single
// instant in loc. Components outside their natural range are passed to
// time.Date as they are.
func ResolveDue(date *Date, tod *TimeOfDay, loc *time.Location) *time.Time {
	if date == nil {
		return nil
	}

	month := valueOr(date.Month, 1)
	day := valueOr(date.Day, 1)

	hour, minute, second := defaultDueHour, defaultDueMinute, defaultDueSecond
	if tod != nil {
		hour = valueOr(tod.Hours, defaultDueHour)
		minute = valueOr(tod.Minutes, defaultDueMinute)
		second = valueOr(tod.Seconds, defaultDueSecond)
	}

	due := time.Date(date.Year, time.Month(month), day, hour, minute, second, 0, loc)
	return &due
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
