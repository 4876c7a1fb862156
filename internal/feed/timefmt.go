package feed

import (
	"fmt"
	"time"
)

// RelativeTime renders ts relative to now the way the feed shows it.
func RelativeTime(now, ts time.Time) string {
	d := now.Sub(ts)
	minutes := int(d / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}
	return ts.Format("2006-01-02")
}
