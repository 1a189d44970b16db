package progress

import (
	"fmt"
	"time"
)

const (
	futurePrefix = "In "
	pastPrefix   = "Ago "
)

// FormatRemaining renders instant relative to now, e.g. "In 2d 3h" or "Ago 45m".
// A zero difference counts as future.
func FormatRemaining(instant *time.Time, now time.Time) string {
	if instant == nil {
		return ""
	}

	diffMs := instant.Sub(now).Milliseconds()
	prefix := futurePrefix
	if diffMs < 0 {
		prefix = pastPrefix
		diffMs = -diffMs
	}

	const (
		minuteMs = int64(60 * 1000)
		hourMs   = 60 * minuteMs
		dayMs    = 24 * hourMs
	)
	days := diffMs / dayMs
	hours := (diffMs % dayMs) / hourMs
	minutes := (diffMs % hourMs) / minuteMs

	switch {
	case days > 0:
		return fmt.Sprintf("%s%dd %dh", prefix, days, hours)
	case hours > 0:
		return fmt.Sprintf("%s%dh %dm", prefix, hours, minutes)
	default:
		return fmt.Sprintf("%s%dm", prefix, minutes)
	}
}
