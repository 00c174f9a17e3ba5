package models

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count with two decimals in 1024 steps up to GB,
// e.g. 1073741824 -> "1.00 GB", 512 -> "512.00 bytes".
func FormatBytes(bytes int64) string {
	units := []string{"bytes", "KB", "MB", "GB"}
	size := float64(bytes)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", size, units[unit])
}

// FormatModified renders a timestamp as "Jan 1, 2024 12:00 AM" in loc.
// A nil loc means local time.
func FormatModified(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Jan 2, 2006 03:04 PM")
}

// FormatElapsed renders a duration as seconds with exactly two decimals.
// Negative durations (clock steps) are reported as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.2f", d.Seconds())
}
