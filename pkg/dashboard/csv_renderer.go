package dashboard

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/semillerodigital/classroom-progress/pkg/progress"
	log "github.com/sirupsen/logrus"
)

type ProgressRenderer interface {
	RenderProgress(result progress.Result) (string, error)
}

type CsvProgressRendererImpl struct{}

func NewCsvProgressRenderer() *CsvProgressRendererImpl {
	return &CsvProgressRendererImpl{}
}

var csvHeader = []string{"id", "title", "status", "due", "remaining", "submitted_at", "on_time", "delay_hours"}

// RenderProgress writes one row per coursework item, delivered first, then
// overdue, then pending, followed by a blank line and the course totals.
func (r *CsvProgressRendererImpl) RenderProgress(result progress.Result) (string, error) {
	data := [][]string{csvHeader}
	for _, group := range [][]progress.ItemResult{result.Details.Delivered, result.Details.Overdue, result.Details.Pending} {
		for _, item := range group {
			data = append(data, itemRow(item, result.Now))
		}
	}

	m := result.Metrics
	data = append(data,
		[]string{},
		[]string{"Total tasks", strconv.Itoa(m.TotalTasks)},
		[]string{"Submitted", strconv.Itoa(m.Submitted)},
		[]string{"Pending", strconv.Itoa(m.Pending)},
		[]string{"Overdue", strconv.Itoa(m.Overdue)},
		[]string{"Late", strconv.Itoa(m.Late)},
		[]string{"Percent on time", strconv.Itoa(m.PercentOnTime)},
		[]string{"Average delay hours", strconv.Itoa(m.AvgDelayHours)},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func itemRow(r progress.ItemResult, now time.Time) []string {
	title := r.Item.Title
	if title == "" {
		title = untitled
	}
	onTime := ""
	if r.Disposition.OnTime != nil {
		onTime = strconv.FormatBool(*r.Disposition.OnTime)
	}
	delay := ""
	if r.Disposition.DelayHours != nil {
		delay = strconv.Itoa(*r.Disposition.DelayHours)
	}
	return []string{
		r.Item.Id,
		title,
		string(r.Disposition.Kind),
		formatTime(r.Disposition.Due),
		progress.FormatRemaining(r.Disposition.Due, now),
		formatTime(r.Disposition.SubmittedAt),
		onTime,
		delay,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
