package ui

import (
	"fmt"
	"math"
	"time"
)

// Duration buckets, in seconds
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
	secondsPerMonth  = 30 * secondsPerDay
)

const sizeBase = 1000

var sizeUnits = []string{"kB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count with SI units and one decimal, e.g.
// "250 bytes", "1.0 kB", "3.4 MB".
func FormatSize(l *Localization, size int64) string {
	if size < sizeBase {
		return l.Plural(KeyBytes, size)
	}

	// The unit is chosen on the value as printed, so 999999 is "1.0 MB"
	value := float64(size)
	unit := sizeUnits[0]
	for _, u := range sizeUnits {
		value /= sizeBase
		unit = u
		if math.Round(value*10)/10 < sizeBase {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", value, unit)
}

// RemainingTime estimates the time left assuming the average rate so far
// holds. It reports false when nothing was received or the size is unknown.
func RemainingTime(contentLength, received int64, elapsed time.Duration) (time.Duration, bool) {
	if received <= 0 || contentLength <= 0 {
		return 0, false
	}
	left := contentLength - received
	if left <= 0 {
		return 0, true
	}
	remaining := float64(elapsed) * float64(left) / float64(received)
	if remaining >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(remaining), true
}

// DurationLeft renders d as "N <unit> left" in the largest unit that keeps
// the value meaningful. Partial seconds are dropped.
func DurationLeft(l *Localization, d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < secondsPerMinute:
		return l.Plural(KeySecondsLeft, seconds)
	case seconds < secondsPerHour:
		return l.Plural(KeyMinutesLeft, seconds/secondsPerMinute)
	case seconds < secondsPerDay:
		return l.Plural(KeyHoursLeft, seconds/secondsPerHour)
	case seconds < secondsPerWeek:
		return l.Plural(KeyDaysLeft, seconds/secondsPerDay)
	case seconds < secondsPerMonth:
		return l.Plural(KeyWeeksLeft, seconds/secondsPerWeek)
	default:
		return l.Plural(KeyMonthsLeft, seconds/secondsPerMonth)
	}
}

// ProgressText builds the status line of an active download with a known length
func ProgressText(l *Localization, received, total int64, remaining time.Duration) string {
	return l.Format(KeyTransferProgress, map[string]any{
		"Received":  FormatSize(l, received),
		"Total":     FormatSize(l, total),
		"Remaining": DurationLeft(l, remaining),
	})
}
