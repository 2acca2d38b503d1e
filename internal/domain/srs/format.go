package srs

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatInterval renders a delay the way review buttons show it:
// "10m", "3h", "14d", "1.5y". Anything under a minute shows as "1m".
func FormatInterval(d time.Duration) string {
	switch {
	case d < time.Hour:
		minutes := int(math.Round(d.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%dm", minutes)
	case d < day:
		return fmt.Sprintf("%dh", int(math.Round(d.Hours())))
	case d < 365*day:
		return fmt.Sprintf("%dd", int(math.Round(d.Hours()/24)))
	default:
		years := math.Round(d.Hours()/24/365*10) / 10
		return strconv.FormatFloat(years, 'f', -1, 64) + "y"
	}
}
