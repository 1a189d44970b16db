package progress

import "math"

func Aggregate(results []ItemResult) CourseMetrics {
	metrics := CourseMetrics{TotalTasks: len(results)}
	totalDelay := 0

	for _, r := range results {
		if r.Submission != nil {
			switch r.Submission.State {
			case StateTurnedIn:
				metrics.TurnedIn++
			case StateReturned:
				metrics.Returned++
			}
		}

		switch r.Disposition.Kind {
		case KindPending:
			metrics.Pending++
		case KindOverdue:
			metrics.Overdue++
		case KindDelivered:
			if r.Disposition.IsOnTime() {
				metrics.OnTimeEstimate++
			}
			if r.Disposition.IsLate() {
				metrics.Late++
				totalDelay += *r.Disposition.DelayHours
			}
		}
	}

	metrics.Submitted = metrics.TurnedIn + metrics.Returned
	metrics.PercentOnTime = percent(metrics.OnTimeEstimate, metrics.Submitted)
	if metrics.Late > 0 {
		metrics.AvgDelayHours = int(math.Round(float64(totalDelay) / float64(metrics.Late)))
	}
	return metrics
}

// percent returns round(part/whole*100), or 0 for an empty whole.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
