package app

import (
	"github.com/gorilla/mux"
	"github.com/semillerodigital/classroom-progress/internal/config"
	"github.com/semillerodigital/classroom-progress/internal/observability"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")

	// Google Classroom authorization
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth", deps.GoogleAuth.IsAuthenticated).Methods("GET")

	// Dashboard
	r.HandleFunc("/api/classroom/courses", deps.DashboardHandler.ListCourses).Methods("GET")
	r.HandleFunc("/api/classroom/courses/{courseId}/announcements", deps.DashboardHandler.ListAnnouncements).Methods("GET")
	r.HandleFunc("/api/classroom/courses/{courseId}/progress", deps.DashboardHandler.GetProgress).Methods("GET")
	r.HandleFunc("/api/classroom/courses/{courseId}/notifications", deps.DashboardHandler.GetNotifications).Methods("GET")

	r.Handle("/metrics", observability.MetricsHandler()).Methods("GET")
}
