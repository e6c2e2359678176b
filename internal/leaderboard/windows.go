package leaderboard

import (
	"fmt"
	"time"
)

// Supported leaderboard windows.
const (
	WindowDaily   = "daily"
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
	WindowAllTime = "all_time"
)

// Windows lists every window in display order.
var Windows = []string{WindowDaily, WindowWeekly, WindowMonthly, WindowAllTime}

// ValidWindow reports whether w names a known window.
func ValidWindow(w string) bool {
	switch w {
	case WindowDaily, WindowWeekly, WindowMonthly, WindowAllTime:
		return true
	default:
		return false
	}
}

// PeriodKey names the bucket t falls into for a window, in UTC.
// Weekly buckets use ISO weeks.
func PeriodKey(window string, t time.Time) string {
	t = t.UTC()
	switch window {
	case WindowDaily:
		return t.Format("2006-01-02")
	case WindowWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case WindowMonthly:
		return t.Format("2006-01")
	default:
		return "all"
	}
}

// retention keeps a closed period readable for a while after it ends.
func retention(window string) time.Duration {
	switch window {
	case WindowDaily:
		return 48 * time.Hour
	case WindowWeekly:
		return 15 * 24 * time.Hour
	case WindowMonthly:
		return 62 * 24 * time.Hour
	default:
		return 0
	}
}
