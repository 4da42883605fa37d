package workbench

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// timestampLayouts covers RFC3339 and the zone-less ISO form Python's isoformat emits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatInferenceTime renders a duration in seconds the way results are shown:
// milliseconds below one second, seconds with two decimals below a minute, and
// minutes plus seconds beyond that.
func FormatInferenceTime(seconds float64) string {
	switch {
	case seconds <= 0:
		return "0ms"
	case seconds < 1:
		return fmt.Sprintf("%dms", int(math.Round(seconds*1000)))
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	default:
		minutes := int(seconds / 60)
		rest := seconds - float64(minutes*60)
		return fmt.Sprintf("%dm %.1fs", minutes, rest)
	}
}

// FormatTimestamp renders a backend timestamp in local time. Missing values become
// "Unknown" and unparseable ones are returned unchanged.
func FormatTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" || ts == "Unknown" {
		return "Unknown"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t.Local().Format("2006-01-02 15:04:05")
		}
	}
	return ts
}
