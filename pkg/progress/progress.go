package progress

import "time"

type SubmissionState string

const (
	StateNew      SubmissionState = "NEW"
	StateCreated  SubmissionState = "CREATED"
	StateTurnedIn SubmissionState = "TURNED_IN"
	StateReturned SubmissionState = "RETURNED"
)

// Date is a calendar date as delivered by the classroom platform. Month and Day
// are optional and default to 1 when missing.
type Date struct {
	Year  int
	Month *int
	Day   *int
}

// TimeOfDay holds optional wall-clock components. Each missing component
// defaults independently: hours to 23, minutes to 59, seconds to 59.
type TimeOfDay struct {
	Hours   *int
	Minutes *int
	Seconds *int
}

type CourseworkItem struct {
	Id            string
	Title         string
	DueDate       *Date
	DueTime       *TimeOfDay
	AlternateLink string
}

type SubmissionRecord struct {
	Id         string
	State      SubmissionState
	UpdateTime *time.Time
}

func (s *SubmissionRecord) delivered() bool {
	return s != nil && (s.State == StateTurnedIn || s.State == StateReturned)
}

type Kind string

const (
	KindPending   Kind = "pending"
	KindOverdue   Kind = "overdue"
	KindDelivered Kind = "delivered"
)

// Disposition is the classification of a single coursework item at one
// evaluation instant. OnTime is nil when timeliness cannot be judged.
// DelayHours is set only when OnTime is false.
type Disposition struct {
	Kind        Kind
	Due         *time.Time
	SubmittedAt *time.Time
	OnTime      *bool
	DelayHours  *int
}

func (d Disposition) IsLate() bool {
	return d.Kind == KindDelivered && d.OnTime != nil && !*d.OnTime
}

func (d Disposition) IsOnTime() bool {
	return d.Kind == KindDelivered && d.OnTime != nil && *d.OnTime
}

type ItemResult struct {
	Item        CourseworkItem
	Submission  *SubmissionRecord
	Disposition Disposition
}

type CourseMetrics struct {
	TotalTasks     int
	TurnedIn       int
	Returned       int
	Submitted      int
	Pending        int
	Overdue        int
	OnTimeEstimate int
	Late           int
	PercentOnTime  int
	AvgDelayHours  int
}

type WindowSummary struct {
	Start         time.Time
	Delivered     int
	OnTimePercent int
	Pending       int
	Overdue       int
}

type Details struct {
	Pending   []ItemResult
	Overdue   []ItemResult
	Delivered []ItemResult
}

type Summary struct {
	Week  WindowSummary
	Month WindowSummary
}

type Result struct {
	Now           time.Time
	Metrics       CourseMetrics
	Details       Details
	Summary       Summary
	Notifications Notifications
}

// ComputeCourseMetrics classifies every coursework item against now and derives
// the course metrics, the per-disposition details and the week/month summaries.
// Items without an entry in submissionsByItemId are treated as not submitted.
func ComputeCourseMetrics(items []CourseworkItem, submissionsByItemId map[string]*SubmissionRecord, now time.Time) Result {
	results := Evaluate(items, submissionsByItemId, now)

	return Result{
		Now:     now,
		Metrics: Aggregate(results),
		Details: splitDetails(results),
		Summary: Summary{
			Week:  Summarize(results, WeekStart(now)),
			Month: Summarize(results, MonthStart(now)),
		},
		Notifications: BuildNotifications(results, now),
	}
}

func splitDetails(results []ItemResult) Details {
	details := Details{
		Pending:   []ItemResult{},
		Overdue:   []ItemResult{},
		Delivered: []ItemResult{},
	}
	for _, r := range results {
		switch r.Disposition.Kind {
		case KindPending:
			details.Pending = append(details.Pending, r)
		case KindOverdue:
			details.Overdue = append(details.Overdue, r)
		case KindDelivered:
			details.Delivered = append(details.Delivered, r)
		}
	}
	return details
}
