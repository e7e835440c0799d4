package helpers

import (
	"fmt"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// FormatInt formats an integer as a string
func FormatInt(n int64) string {
	return fmt.Sprintf("%d", n)
}

// FormatDate formats a time.Time as "Jan 2, 2006"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateString reformats an ISO-8601 date ("2006-01-02" or RFC 3339).
// Anything else is returned unchanged.
func FormatDateString(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FormatDate(t)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return FormatDate(t)
	}
	return s
}

// FormatBytes formats a byte count as B, KiB, MiB or GiB
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMG"[exp])
}

// Classes merges tailwind class lists, later classes winning over conflicting earlier ones.
// Empty entries are skipped.
func Classes(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return twmerge.Merge(parts...)
}
