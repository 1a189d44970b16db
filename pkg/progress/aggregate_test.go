package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, location)
	due := time.Date(2024, 3, 10, 23, 59, 59, 0, location)

	// given
	items := []CourseworkItem{
		{Id: "on-time", DueDate: dueOn(2024, 3, 10)},
		{Id: "late-1h", DueDate: dueOn(2024, 3, 10)},
		{Id: "late-2h", DueDate: dueOn(2024, 3, 10)},
		{Id: "returned-no-due"},
		{Id: "overdue", DueDate: dueOn(2024, 3, 10)},
		{Id: "pending", DueDate: dueOn(2024, 3, 20)},
		{Id: "pending-no-due"},
	}
	subs := map[string]*SubmissionRecord{
		"on-time":         submission(StateTurnedIn, timePtr(due.Add(-time.Hour))),
		"late-1h":         submission(StateReturned, timePtr(due.Add(time.Hour))),
		"late-2h":         submission(StateTurnedIn, timePtr(due.Add(2*time.Hour))),
		"returned-no-due": submission(StateReturned, timePtr(due)),
		"overdue":         submission(StateCreated, nil),
	}

	// when
	metrics := Aggregate(Evaluate(items, subs, now))

	// then
	assert.Equal(t, CourseMetrics{
		TotalTasks:     7,
		TurnedIn:       2,
		Returned:       2,
		Submitted:      4,
		Pending:        2,
		Overdue:        1,
		OnTimeEstimate: 1,
		Late:           2,
		PercentOnTime:  25,
		AvgDelayHours:  2, // mean(1, 2) = 1.5 rounds half away from zero
	}, metrics)
}

func TestAggregate_ZeroDenominators(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, location)

	t.Run("no items", func(t *testing.T) {
		metrics := Aggregate(Evaluate(nil, nil, now))

		assert.Equal(t, CourseMetrics{}, metrics)
	})

	t.Run("nothing submitted", func(t *testing.T) {
		items := []CourseworkItem{{Id: "a", DueDate: dueOn(2024, 3, 1)}, {Id: "b"}}

		metrics := Aggregate(Evaluate(items, nil, now))

		assert.Equal(t, 0, metrics.Submitted)
		assert.Equal(t, 0, metrics.PercentOnTime)
		assert.Equal(t, 0, metrics.AvgDelayHours)
	})

	t.Run("only on time deliveries", func(t *testing.T) {
		items := []CourseworkItem{{Id: "a", DueDate: dueOn(2024, 3, 10)}}
		subs := map[string]*SubmissionRecord{"a": submission(StateTurnedIn, timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, location)))}

		metrics := Aggregate(Evaluate(items, subs, now))

		assert.Equal(t, 100, metrics.PercentOnTime)
		assert.Equal(t, 0, metrics.AvgDelayHours)
	})
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, whole, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 8, 13}, // 12.5
		{1, 3, 33},
		{2, 3, 67},
		{3, 8, 38}, // 37.5
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.part, tt.whole), "percent(%d, %d)", tt.part, tt.whole)
	}
}
