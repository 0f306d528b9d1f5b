// Package dates checks assignment date consistency and owns the
// dates-file line format used by list-due-dates and set-due-dates.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration as days/hours/minutes, ignoring
// sub-minute remainders. A zero duration renders as "0 seconds".
func FormatDuration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	if totalSeconds == 0 {
		return "0 seconds"
	}

	sign := ""
	if totalSeconds < 0 {
		sign = "-"
		totalSeconds = -totalSeconds
	}

	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60

	var parts []string
	if days != 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, plural(days)))
	}
	if hours != 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if minutes != 0 {
		parts = append(parts, fmt.Sprintf("%d minute%s", minutes, plural(minutes)))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return sign + strings.Join(parts, ", ")
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
