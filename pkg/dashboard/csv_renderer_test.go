package dashboard

import (
	"testing"
	"time"

	"github.com/semillerodigital/classroom-progress/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvProgressRenderer_RenderProgress(t *testing.T) {
	// given
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	items := []progress.CourseworkItem{
		{Id: "essay", Title: "Essay, part 1", DueDate: date(2024, 3, 10)},
		{Id: "quiz", DueDate: date(2024, 3, 12)},
		{Id: "reading", Title: "Reading"},
	}
	subs := map[string]*progress.SubmissionRecord{
		"essay": {Id: "s1", State: progress.StateTurnedIn, UpdateTime: timePtr(time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC))},
	}
	result := progress.ComputeCourseMetrics(items, subs, now)

	// when
	out, err := NewCsvProgressRenderer().RenderProgress(result)

	// then
	require.NoError(t, err)
	expected := "id,title,status,due,remaining,submitted_at,on_time,delay_hours\n" +
		"essay,\"Essay, part 1\",delivered,2024-03-10T23:59:59Z,Ago 4d 12h,2024-03-11T02:00:00Z,false,2\n" +
		"quiz,(untitled),overdue,2024-03-12T23:59:59Z,Ago 2d 12h,,,\n" +
		"reading,Reading,pending,,,,,\n" +
		"\n" +
		"Total tasks,3\n" +
		"Submitted,1\n" +
		"Pending,1\n" +
		"Overdue,1\n" +
		"Late,1\n" +
		"Percent on time,0\n" +
		"Average delay hours,2\n"
	assert.Equal(t, expected, out)
}
