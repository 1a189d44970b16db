package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/semillerodigital/classroom-progress/internal/config"
	"github.com/semillerodigital/classroom-progress/internal/event_bus"
	"github.com/semillerodigital/classroom-progress/internal/utils"
	"github.com/semillerodigital/classroom-progress/pkg/classroom"
	"github.com/semillerodigital/classroom-progress/pkg/dashboard"
	"github.com/semillerodigital/classroom-progress/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	TokenRepository classroom.TokenRepository
	GoogleAuth      *classroom.GoogleAuth
	ClassroomClient classroom.Client

	DashboardCache   dashboard.Cache
	DashboardService dashboard.Service
	ProgressRenderer dashboard.ProgressRenderer
	DashboardHandler *dashboard.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// redisClient may be nil, in which case the dashboard cache is disabled.
func BuildDependencies(db *pgxpool.Pool, redisClient *redis.Client, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TokenRepository = classroom.NewTokenRepository(db)
	deps.GoogleAuth = classroom.NewGoogleAuth(deps.TokenRepository, deps.UserService, deps.EventBus, cfg)
	deps.ClassroomClient = classroom.NewClient(deps.GoogleAuth)

	if redisClient != nil {
		deps.DashboardCache = dashboard.NewRedisCache(redisClient, cfg.Dashboard.CacheTTL)
	} else {
		deps.DashboardCache = dashboard.NoopCache{}
	}
	dashboard.InvalidateOnConnectionChange(deps.EventBus, deps.DashboardCache)

	deps.DashboardService = dashboard.NewService(deps.ClassroomClient, deps.UserService, deps.DashboardCache, deps.Clock, cfg.Dashboard)
	deps.ProgressRenderer = dashboard.NewCsvProgressRenderer()
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.ProgressRenderer)

	return deps
}
