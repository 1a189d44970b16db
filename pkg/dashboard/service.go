package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/semillerodigital/classroom-progress/internal/config"
	"github.com/semillerodigital/classroom-progress/internal/utils"
	"github.com/semillerodigital/classroom-progress/pkg/classroom"
	"github.com/semillerodigital/classroom-progress/pkg/progress"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	ListCourses(ctx context.Context) ([]classroom.Course, error)
	ListAnnouncements(ctx context.Context, courseId string) ([]classroom.Announcement, error)
	GetCourseProgress(ctx context.Context, courseId string) (progress.Result, error)
	GetNotifications(ctx context.Context, courseId string) (progress.Notifications, error)
}

type ServiceImpl struct {
	client          classroom.Client
	users           user.Provider
	cache           Cache
	clock           utils.Clock
	concurrency     int
	defaultLocation *time.Location
}

func NewService(client classroom.Client, users user.Provider, cache Cache, clock utils.Clock, cfg config.Dashboard) *ServiceImpl {
	location, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		log.Warnf("unknown default timezone %q, using UTC: %v", cfg.DefaultTimezone, err)
		location = time.UTC
	}
	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ServiceImpl{
		client:          client,
		users:           users,
		cache:           cache,
		clock:           clock,
		concurrency:     concurrency,
		defaultLocation: location,
	}
}

func (s *ServiceImpl) ListCourses(ctx context.Context) ([]classroom.Course, error) {
	return s.client.ListCourses(ctx)
}

func (s *ServiceImpl) ListAnnouncements(ctx context.Context, courseId string) ([]classroom.Announcement, error) {
	return s.client.ListAnnouncements(ctx, courseId)
}

// GetCourseProgress evaluates the current user's coursework for one course.
// The evaluation instant is read once, in the user's timezone, and shared by
// every item.
func (s *ServiceImpl) GetCourseProgress(ctx context.Context, courseId string) (progress.Result, error) {
	currentUser, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return progress.Result{}, fmt.Errorf("failed to get current user: %w", err)
	}
	now := utils.NowIn(s.clock, currentUser.Location(s.defaultLocation))

	snapshot, err := s.snapshot(ctx, currentUser.Id, courseId)
	if err != nil {
		return progress.Result{}, err
	}

	return progress.ComputeCourseMetrics(snapshot.Items, snapshot.Submissions, now), nil
}

func (s *ServiceImpl) GetNotifications(ctx context.Context, courseId string) (progress.Notifications, error) {
	result, err := s.GetCourseProgress(ctx, courseId)
	if err != nil {
		return progress.Notifications{}, err
	}
	return result.Notifications, nil
}

func (s *ServiceImpl) snapshot(ctx context.Context, userId int, courseId string) (Snapshot, error) {
	cached, err := s.cache.Get(ctx, userId, courseId)
	if err != nil {
		log.Warnf("dashboard cache lookup failed for user %d course %s: %v", userId, courseId, err)
	}
	if cached != nil {
		log.Tracef("dashboard cache hit for user %d course %s", userId, courseId)
		return *cached, nil
	}

	snapshot, err := s.fetch(ctx, courseId)
	if err != nil {
		return Snapshot{}, err
	}

	if err := s.cache.Set(ctx, userId, courseId, snapshot); err != nil {
		log.Warnf("failed to store dashboard cache for user %d course %s: %v", userId, courseId, err)
	}
	return snapshot, nil
}

// fetch lists the coursework and loads the user's submission for each item.
// A single failed submission fails the whole fetch. Credentials are resolved
// once so an expired token is refreshed a single time for all workers.
func (s *ServiceImpl) fetch(ctx context.Context, courseId string) (Snapshot, error) {
	ctx, err := s.client.Authorize(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	items, err := s.client.ListCourseWork(ctx, courseId)
	if err != nil {
		return Snapshot{}, err
	}
	log.Debugf("Fetching submissions for %d coursework items in course %s", len(items), courseId)

	submissions := make([]*progress.SubmissionRecord, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			sub, err := s.client.GetOwnSubmission(gctx, courseId, item.Id)
			if err != nil {
				return err
			}
			submissions[i] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("failed to fetch submissions for course %s: %v", courseId, err)
		return Snapshot{}, err
	}

	byItem := make(map[string]*progress.SubmissionRecord, len(items))
	for i, item := range items {
		if submissions[i] != nil {
			byItem[item.Id] = submissions[i]
		}
	}
	if items == nil {
		items = []progress.CourseworkItem{}
	}
	return Snapshot{Items: items, Submissions: byItem}, nil
}
