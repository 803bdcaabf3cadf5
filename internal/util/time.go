package util

import "time"

// FormatTime formats a time in a human-readable way.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// DateStamp returns the UTC calendar date of t as YYYY-MM-DD.
func DateStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
