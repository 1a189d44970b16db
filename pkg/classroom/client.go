package classroom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/semillerodigital/classroom-progress/internal/observability"
	"github.com/semillerodigital/classroom-progress/pkg/progress"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	log "github.com/sirupsen/logrus"
	classroomapi "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

const (
	coursesPageSize       = 20
	announcementsPageSize = 10
)

type Client interface {
	// Authorize resolves the current user's credentials and binds them to the
	// returned context. Calls made with that context share one token source.
	Authorize(ctx context.Context) (context.Context, error)
	ListCourses(ctx context.Context) ([]Course, error)
	ListCourseWork(ctx context.Context, courseId string) ([]progress.CourseworkItem, error)
	// GetOwnSubmission returns the caller's submission for one coursework item,
	// or nil when there is none.
	GetOwnSubmission(ctx context.Context, courseId, courseWorkId string) (*progress.SubmissionRecord, error)
	ListAnnouncements(ctx context.Context, courseId string) ([]Announcement, error)
}

type HTTPClientProvider interface {
	HTTPClient(ctx context.Context, userId int) (*http.Client, error)
}

type serviceKey struct{}

type boundService struct {
	userId  int
	service *classroomapi.Service
}

type ClientImpl struct {
	clients HTTPClientProvider
	options []option.ClientOption
}

// NewClient builds a Classroom client authorized per request user. Extra
// options are appended to every service, e.g. a custom endpoint.
func NewClient(clients HTTPClientProvider, options ...option.ClientOption) *ClientImpl {
	return &ClientImpl{clients: clients, options: options}
}

func (c *ClientImpl) Authorize(ctx context.Context) (context.Context, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to get current user: %w", err)
	}
	service, err := c.prepareService(ctx, userId)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, serviceKey{}, boundService{userId: userId, service: service}), nil
}

func (c *ClientImpl) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := c.call(ctx, "list_courses", func(service *classroomapi.Service) error {
		return service.Courses.List().
			CourseStates("ACTIVE").
			PageSize(coursesPageSize).
			Pages(ctx, func(page *classroomapi.ListCoursesResponse) error {
				for _, course := range page.Courses {
					courses = append(courses, Course{
						Id:            course.Id,
						Name:          course.Name,
						Section:       course.Section,
						AlternateLink: course.AlternateLink,
					})
				}
				return nil
			})
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *ClientImpl) ListCourseWork(ctx context.Context, courseId string) ([]progress.CourseworkItem, error) {
	var items []progress.CourseworkItem
	err := c.call(ctx, "list_coursework", func(service *classroomapi.Service) error {
		return service.Courses.CourseWork.List(courseId).
			Pages(ctx, func(page *classroomapi.ListCourseWorkResponse) error {
				for _, cw := range page.CourseWork {
					items = append(items, toCourseworkItem(cw))
				}
				return nil
			})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *ClientImpl) GetOwnSubmission(ctx context.Context, courseId, courseWorkId string) (*progress.SubmissionRecord, error) {
	var record *progress.SubmissionRecord
	err := c.call(ctx, "get_own_submission", func(service *classroomapi.Service) error {
		resp, err := service.Courses.CourseWork.StudentSubmissions.List(courseId, courseWorkId).
			UserId("me").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.StudentSubmissions) > 0 {
			record = toSubmissionRecord(resp.StudentSubmissions[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (c *ClientImpl) ListAnnouncements(ctx context.Context, courseId string) ([]Announcement, error) {
	var announcements []Announcement
	err := c.call(ctx, "list_announcements", func(service *classroomapi.Service) error {
		resp, err := service.Courses.Announcements.List(courseId).
			OrderBy("updateTime desc").
			PageSize(announcementsPageSize).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		for _, a := range resp.Announcements {
			announcements = append(announcements, Announcement{
				Id:            a.Id,
				Text:          a.Text,
				UpdateTime:    parseTimestamp(a.UpdateTime),
				AlternateLink: a.AlternateLink,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return announcements, nil
}

// call prepares the service for the current user and records metrics for fn.
func (c *ClientImpl) call(ctx context.Context, operation string, fn func(*classroomapi.Service) error) error {
	start := time.Now()
	err := c.do(ctx, fn)

	observability.ClassroomLatency().WithLabelValues(operation).Observe(time.Since(start).Seconds())
	observability.ClassroomRequests().WithLabelValues(operation, statusLabel(err)).Inc()

	if err != nil {
		log.Debugf("classroom %s failed: %v", operation, err)
	}
	return err
}

func (c *ClientImpl) do(ctx context.Context, fn func(*classroomapi.Service) error) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if bound, ok := ctx.Value(serviceKey{}).(boundService); ok && bound.userId == userId {
		return translateError(fn(bound.service))
	}
	service, err := c.prepareService(ctx, userId)
	if err != nil {
		return err
	}
	return translateError(fn(service))
}

func (c *ClientImpl) prepareService(ctx context.Context, userId int) (*classroomapi.Service, error) {
	httpClient, err := c.clients.HTTPClient(ctx, userId)
	if err != nil {
		return nil, err
	}
	options := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.options...)
	service, err := classroomapi.NewService(ctx, options...)
	if err != nil {
		err := fmt.Errorf("unable to create Classroom client: %w", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "unauthenticated"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.StatusCode)
	}
	return "error"
}
