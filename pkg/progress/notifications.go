package progress

import "time"

const notificationHorizon = 7 * 24 * time.Hour

type Notifications struct {
	Now      time.Time
	Horizon  time.Time
	Upcoming []ItemResult
	Missing  []ItemResult
}

// BuildNotifications lists items due within the next seven days (Upcoming) and
// undelivered items whose due instant falls before the end of that horizon
// (Missing).
func BuildNotifications(results []ItemResult, now time.Time) Notifications {
	horizon := now.Add(notificationHorizon)
	n := Notifications{
		Now:      now,
		Horizon:  horizon,
		Upcoming: []ItemResult{},
		Missing:  []ItemResult{},
	}

	for _, r := range results {
		due := r.Disposition.Due
		if due == nil {
			continue
		}
		if due.After(now) && !due.After(horizon) {
			n.Upcoming = append(n.Upcoming, r)
		}
		if r.Disposition.Kind != KindDelivered && due.Before(horizon) {
			n.Missing = append(n.Missing, r)
		}
	}
	return n
}
