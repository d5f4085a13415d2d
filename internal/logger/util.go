package logger

import (
	"strings"
	"time"
)

// Status collapses an error into the ok/error tag used on outcome log lines.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Took measures elapsed time since start, millisecond-rounded.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds a duration to whole milliseconds. Sub-millisecond noise in
// duration attributes is never worth reading.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values for a preview attribute and
// reports whether anything was left out.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}
