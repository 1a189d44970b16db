package classroom

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/semillerodigital/classroom-progress/pkg/progress"
)

type StubClient struct {
	Courses       []Course
	CourseWork    map[string][]progress.CourseworkItem
	Submissions   map[string]*progress.SubmissionRecord
	Announcements map[string][]Announcement
	// Err is returned by every call; SubmissionErrs fails single submissions.
	Err            error
	SubmissionErrs map[string]error

	AuthorizeCalls  atomic.Int32
	SubmissionCalls atomic.Int32
	mu              sync.Mutex
	inFlight        int
	MaxInFlight     int
	Block           chan struct{}
}

func NewStubClient() *StubClient {
	return &StubClient{
		CourseWork:     map[string][]progress.CourseworkItem{},
		Submissions:    map[string]*progress.SubmissionRecord{},
		Announcements:  map[string][]Announcement{},
		SubmissionErrs: map[string]error{},
	}
}

func (s *StubClient) Authorize(ctx context.Context) (context.Context, error) {
	s.AuthorizeCalls.Add(1)
	if s.Err != nil {
		return ctx, s.Err
	}
	return ctx, nil
}

func (s *StubClient) ListCourses(ctx context.Context) ([]Course, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Courses, nil
}

func (s *StubClient) ListCourseWork(ctx context.Context, courseId string) ([]progress.CourseworkItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.CourseWork[courseId], nil
}

func (s *StubClient) GetOwnSubmission(ctx context.Context, courseId, courseWorkId string) (*progress.SubmissionRecord, error) {
	s.SubmissionCalls.Add(1)

	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.MaxInFlight {
		s.MaxInFlight = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.SubmissionErrs[courseWorkId]; err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Submissions[courseWorkId], nil
}

func (s *StubClient) ListAnnouncements(ctx context.Context, courseId string) ([]Announcement, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Announcements[courseId], nil
}
