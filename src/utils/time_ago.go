package utils

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// compactMagnitudes renders "Just now", "5m ago", "3h ago", "2d ago".
var compactMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "Just now", DivBy: time.Second},
	{D: time.Hour, Format: "%dm %s", DivBy: time.Minute},
	{D: 24 * time.Hour, Format: "%dh %s", DivBy: time.Hour},
	{D: math.MaxInt64, Format: "%dd %s", DivBy: 24 * time.Hour},
}

// TimeAgo renders a Unix-second timestamp relative to now ("3h ago").
// Zero timestamps render as an empty string.
func TimeAgo(ts int64, now time.Time) string {
	if ts <= 0 {
		return ""
	}
	return humanize.CustomRelTime(time.Unix(ts, 0), now, "ago", "from now", compactMagnitudes)
}
