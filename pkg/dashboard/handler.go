package dashboard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/semillerodigital/classroom-progress/internal/rest"
	"github.com/semillerodigital/classroom-progress/pkg/classroom"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  Service
	renderer ProgressRenderer
}

func NewHandler(service Service, renderer ProgressRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// ListCourses godoc
// @Summary List the user's active courses
// @Tags Dashboard
// @Produce json
// @Success 200 {array} CourseDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/classroom/courses [get]
// @Security XUserId
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]CourseDTO, 0, len(courses))
	for _, c := range courses {
		dtos = append(dtos, courseToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// ListAnnouncements godoc
// @Summary Latest announcements of a course
// @Tags Dashboard
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} AnnouncementDTO
// @Router /api/classroom/courses/{courseId}/announcements [get]
// @Security XUserId
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	courseId := mux.Vars(r)["courseId"]
	announcements, err := h.service.ListAnnouncements(r.Context(), courseId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]AnnouncementDTO, 0, len(announcements))
	for _, a := range announcements {
		dtos = append(dtos, announcementToDTO(a))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetProgress godoc
// @Summary Coursework progress of the current user in a course
// @Tags Dashboard
// @Produce json,text/csv
// @Param courseId path string true "Course ID"
// @Success 200 {object} ProgressDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/classroom/courses/{courseId}/progress [get]
// @Security XUserId
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	courseId := mux.Vars(r)["courseId"]
	result, err := h.service.GetCourseProgress(r.Context(), courseId)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.renderer.RenderProgress(result)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render progress", "")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, progressToDTO(result))
}

// GetNotifications godoc
// @Summary Upcoming and missing coursework for the next seven days
// @Tags Dashboard
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} NotificationsDTO
// @Router /api/classroom/courses/{courseId}/notifications [get]
// @Security XUserId
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	courseId := mux.Vars(r)["courseId"]
	notifications, err := h.service.GetNotifications(r.Context(), courseId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, notificationsToDTO(notifications))
}

func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *classroom.APIError
	switch {
	case errors.Is(err, classroom.ErrUnauthenticated):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	case errors.Is(err, user.ErrNoUser), errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.As(err, &apiErr):
		rest.WriteError(w, apiErr.StatusCode, "Google API error", apiErr.Message)
	default:
		log.Errorf("dashboard request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
