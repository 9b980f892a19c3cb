// Package format renders amounts, data sizes and durations for display.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/xraph/sandbox/types"
)

// USD renders m as "$12.34".
func USD(m types.Money) string { return m.String() }

// GB renders a data size. Sizes below 1 GB are shown in MB.
func GB(gb float64) string {
	if gb < 1 {
		return fmt.Sprintf("%.0f MB", gb*1024)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

// Data renders a data allowance, treating 999 GB and above as unlimited.
func Data(gb float64) string {
	if gb >= 999 {
		return "Unlimited"
	}
	return GB(gb)
}

// TimeRemaining renders the time left until expiry as "3d 4h", "2h 15m",
// "9m" or "expired".
func TimeRemaining(now, expiry time.Time) string {
	left := expiry.Sub(now)
	if left <= 0 {
		return "expired"
	}
	hours := int64(left / time.Hour)
	minutes := int64((left % time.Hour) / time.Minute)
	switch {
	case hours > 24:
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Uptime renders an elapsed duration as "5h 12m".
func Uptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := math.Floor(d.Hours())
	m := math.Floor(d.Minutes() - h*60)
	return fmt.Sprintf("%.0fh %.0fm", h, m)
}

// Timestamp renders t as "2006-01-02 15:04" in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// Clock renders t as "15:04:05" in UTC.
func Clock(t time.Time) string {
	return t.UTC().Format("15:04:05")
}
