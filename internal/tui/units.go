package tui

import (
	"fmt"
)

const metersPerKm = 1000.0

// formatDistance formats a distance in meters as kilometers
func formatDistance(meters *float64) string {
	if meters == nil || *meters <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f km", *meters/metersPerKm)
}

// formatDuration formats seconds as "1h 05m" or "45m"
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatValue formats an optional value, "-" when absent
func formatValue(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

// formatSigned formats an optional value with an explicit sign, for trends
func formatSigned(v *float64, places int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%+.*f", places, *v)
}

// shortDate trims a local timestamp to its date
func shortDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
