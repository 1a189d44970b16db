package classroom

import (
	"time"

	"github.com/semillerodigital/classroom-progress/pkg/progress"
	log "github.com/sirupsen/logrus"
	classroomapi "google.golang.org/api/classroom/v1"
)

// The API omits zero-valued numeric fields, so zero is read as absent.

func toCourseworkItem(cw *classroomapi.CourseWork) progress.CourseworkItem {
	return progress.CourseworkItem{
		Id:            cw.Id,
		Title:         cw.Title,
		DueDate:       toDate(cw.DueDate),
		DueTime:       toTimeOfDay(cw.DueTime),
		AlternateLink: cw.AlternateLink,
	}
}

func toDate(d *classroomapi.Date) *progress.Date {
	if d == nil || d.Year == 0 {
		return nil
	}
	return &progress.Date{
		Year:  int(d.Year),
		Month: nonZero(d.Month),
		Day:   nonZero(d.Day),
	}
}

func toTimeOfDay(t *classroomapi.TimeOfDay) *progress.TimeOfDay {
	if t == nil {
		return nil
	}
	return &progress.TimeOfDay{
		Hours:   nonZero(t.Hours),
		Minutes: nonZero(t.Minutes),
		Seconds: nonZero(t.Seconds),
	}
}

func toSubmissionRecord(s *classroomapi.StudentSubmission) *progress.SubmissionRecord {
	return &progress.SubmissionRecord{
		Id:         s.Id,
		State:      progress.SubmissionState(s.State),
		UpdateTime: parseTimestamp(s.UpdateTime),
	}
}

func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		log.Warnf("unparseable timestamp %q: %v", value, err)
		return nil
	}
	return &t
}

func nonZero(v int64) *int {
	if v == 0 {
		return nil
	}
	i := int(v)
	return &i
}
