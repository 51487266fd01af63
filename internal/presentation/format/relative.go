package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// NoCreationDate is shown for users without a creation timestamp.
const NoCreationDate = "No creation date"

// RelativeTime describes an epoch-millisecond timestamp relative to now.
// Timestamps in the future count as zero seconds ago.
func RelativeTime(createdAt *int64, now time.Time) string {
	if createdAt == nil {
		return NoCreationDate
	}

	t := time.UnixMilli(*createdAt)
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return plural(int64(d/time.Second), "second")
	case d < time.Hour:
		return plural(int64(d/time.Minute), "minute")
	default:
		return "Fetched " + humanize.RelTime(t, now, "ago", "from now")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
