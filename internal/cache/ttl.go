package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL bounds.
const (
	// MaxTTLSeconds is the maximum allowed TTL (7 days).
	MaxTTLSeconds = 604800

	minutesPerHour = 60
	hoursPerDay    = 24
)

// ErrInvalidTTL is returned for TTLs outside [0, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between 0 and %d seconds", MaxTTLSeconds)

// ParseTTL parses a TTL given as integer seconds ("300") or a Go duration ("5m", "1h30m").
// Zero disables caching.
func ParseTTL(s string) (int, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds < 0 || seconds > MaxTTLSeconds {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
		}
		return seconds, nil
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}

	seconds := int(duration.Seconds())
	if seconds < 0 || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}

// FormatDuration formats a duration compactly: "45s", "30m", "1h30m", "2d3h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
