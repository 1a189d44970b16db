package dashboard

import (
	"time"

	"github.com/semillerodigital/classroom-progress/pkg/classroom"
	"github.com/semillerodigital/classroom-progress/pkg/progress"
)

const untitled = "(untitled)"

type CourseDTO struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Section       string `json:"section,omitempty"`
	AlternateLink string `json:"alternateLink,omitempty"`
}

type AnnouncementDTO struct {
	Id            string     `json:"id"`
	Text          string     `json:"text"`
	UpdateTime    *time.Time `json:"updateTime,omitempty"`
	AlternateLink string     `json:"alternateLink,omitempty"`
}

type ItemDTO struct {
	Id            string     `json:"id"`
	Title         string     `json:"title"`
	AlternateLink string     `json:"alternateLink,omitempty"`
	Kind          string     `json:"kind"`
	State         string     `json:"state,omitempty"`
	Due           *time.Time `json:"due"`
	Remaining     string     `json:"remaining"`
	SubmittedAt   *time.Time `json:"submittedAt"`
	OnTime        *bool      `json:"onTime"`
	DelayHours    *int       `json:"delayHours"`
}

type MetricsDTO struct {
	TotalTasks     int `json:"totalTasks"`
	TurnedIn       int `json:"turnedIn"`
	Returned       int `json:"returned"`
	Submitted      int `json:"submitted"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	OnTimeEstimate int `json:"onTimeEstimate"`
	Late           int `json:"late"`
	PercentOnTime  int `json:"percentOnTime"`
	AvgDelayHours  int `json:"avgDelayHours"`
}

type DetailsDTO struct {
	Pending   []ItemDTO `json:"pending"`
	Overdue   []ItemDTO `json:"overdue"`
	Delivered []ItemDTO `json:"delivered"`
}

type WindowSummaryDTO struct {
	Start         time.Time `json:"start"`
	Delivered     int       `json:"delivered"`
	OnTimePercent int       `json:"onTimePercent"`
	Pending       int       `json:"pending"`
	Overdue       int       `json:"overdue"`
}

type SummaryDTO struct {
	Week  WindowSummaryDTO `json:"week"`
	Month WindowSummaryDTO `json:"month"`
}

type ProgressDTO struct {
	Now     time.Time  `json:"now"`
	Metrics MetricsDTO `json:"metrics"`
	Details DetailsDTO `json:"details"`
	Summary SummaryDTO `json:"summary"`
}

type NotificationsDTO struct {
	Now      time.Time `json:"now"`
	Horizon  time.Time `json:"horizon"`
	Upcoming []ItemDTO `json:"upcoming"`
	Missing  []ItemDTO `json:"missing"`
}

func courseToDTO(c classroom.Course) CourseDTO {
	return CourseDTO{Id: c.Id, Name: c.Name, Section: c.Section, AlternateLink: c.AlternateLink}
}

func announcementToDTO(a classroom.Announcement) AnnouncementDTO {
	return AnnouncementDTO{Id: a.Id, Text: a.Text, UpdateTime: a.UpdateTime, AlternateLink: a.AlternateLink}
}

func itemToDTO(r progress.ItemResult, now time.Time) ItemDTO {
	title := r.Item.Title
	if title == "" {
		title = untitled
	}
	dto := ItemDTO{
		Id:            r.Item.Id,
		Title:         title,
		AlternateLink: r.Item.AlternateLink,
		Kind:          string(r.Disposition.Kind),
		Due:           r.Disposition.Due,
		Remaining:     progress.FormatRemaining(r.Disposition.Due, now),
		SubmittedAt:   r.Disposition.SubmittedAt,
		OnTime:        r.Disposition.OnTime,
		DelayHours:    r.Disposition.DelayHours,
	}
	if r.Submission != nil {
		dto.State = string(r.Submission.State)
	}
	return dto
}

func itemsToDTO(results []progress.ItemResult, now time.Time) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, itemToDTO(r, now))
	}
	return dtos
}

func windowToDTO(w progress.WindowSummary) WindowSummaryDTO {
	return WindowSummaryDTO{
		Start:         w.Start,
		Delivered:     w.Delivered,
		OnTimePercent: w.OnTimePercent,
		Pending:       w.Pending,
		Overdue:       w.Overdue,
	}
}

func progressToDTO(result progress.Result) ProgressDTO {
	m := result.Metrics
	return ProgressDTO{
		Now: result.Now,
		Metrics: MetricsDTO{
			TotalTasks:     m.TotalTasks,
			TurnedIn:       m.TurnedIn,
			Returned:       m.Returned,
			Submitted:      m.Submitted,
			Pending:        m.Pending,
			Overdue:        m.Overdue,
			OnTimeEstimate: m.OnTimeEstimate,
			Late:           m.Late,
			PercentOnTime:  m.PercentOnTime,
			AvgDelayHours:  m.AvgDelayHours,
		},
		Details: DetailsDTO{
			Pending:   itemsToDTO(result.Details.Pending, result.Now),
			Overdue:   itemsToDTO(result.Details.Overdue, result.Now),
			Delivered: itemsToDTO(result.Details.Delivered, result.Now),
		},
		Summary: SummaryDTO{
			Week:  windowToDTO(result.Summary.Week),
			Month: windowToDTO(result.Summary.Month),
		},
	}
}

func notificationsToDTO(n progress.Notifications) NotificationsDTO {
	return NotificationsDTO{
		Now:      n.Now,
		Horizon:  n.Horizon,
		Upcoming: itemsToDTO(n.Upcoming, n.Now),
		Missing:  itemsToDTO(n.Missing, n.Now),
	}
}
