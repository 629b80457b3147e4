// Package schedule writes and manages the systemd user timer that runs the
// download and set cycle.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// ErrInvalidScheduleInput is returned for times and intervals that cannot be scheduled.
var ErrInvalidScheduleInput = errors.New("invalid schedule")

// maxInterval keeps intervals within a year, well inside time.Duration.
const maxInterval = 365 * 24 * time.Hour

var (
	clockPattern    = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	intervalPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)
)

// ParseCadence reads a daily clock time ("02:00") or an interval ("1h",
// "30m", "2h30m").
func ParseCadence(s string) (models.Cadence, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return models.Cadence{}, fmt.Errorf("%w: %q is not a time between 00:00 and 23:59", ErrInvalidScheduleInput, s)
		}
		return models.Cadence{Kind: models.DailyAt, Hour: hour, Minute: minute, Original: s}, nil
	}

	m := intervalPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return models.Cadence{}, fmt.Errorf("%w: %q (use HH:MM for a daily time or an interval like 1h, 30m, 2h30m)", ErrInvalidScheduleInput, s)
	}
	var every time.Duration
	if m[1] != "" {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return models.Cadence{}, fmt.Errorf("%w: %q: %v", ErrInvalidScheduleInput, s, err)
		}
		if hours > int(maxInterval/time.Hour) {
			return models.Cadence{}, fmt.Errorf("%w: interval %q is longer than a year", ErrInvalidScheduleInput, s)
		}
		every += time.Duration(hours) * time.Hour
	}
	if m[2] != "" {
		minutes, err := strconv.Atoi(m[2])
		if err != nil {
			return models.Cadence{}, fmt.Errorf("%w: %q: %v", ErrInvalidScheduleInput, s, err)
		}
		if minutes > int(maxInterval/time.Minute) {
			return models.Cadence{}, fmt.Errorf("%w: interval %q is longer than a year", ErrInvalidScheduleInput, s)
		}
		every += time.Duration(minutes) * time.Minute
	}
	if every > maxInterval {
		return models.Cadence{}, fmt.Errorf("%w: interval %q is longer than a year", ErrInvalidScheduleInput, s)
	}
	if every <= 0 {
		return models.Cadence{}, fmt.Errorf("%w: interval %q is zero", ErrInvalidScheduleInput, s)
	}
	return models.Cadence{Kind: models.Interval, Every: every, Original: s}, nil
}

// Validate checks a cadence built by hand rather than by ParseCadence.
func Validate(c models.Cadence) error {
	switch c.Kind {
	case models.DailyAt:
		if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
			return fmt.Errorf("%w: %s is not a valid time", ErrInvalidScheduleInput, c.Clock())
		}
	case models.Interval:
		if c.Every < time.Minute {
			return fmt.Errorf("%w: interval %s is shorter than a minute", ErrInvalidScheduleInput, c.Every)
		}
	default:
		return fmt.Errorf("%w: unknown cadence kind %d", ErrInvalidScheduleInput, c.Kind)
	}
	return nil
}

// timespan renders d in systemd's time span syntax, e.g. "2h 30min".
func timespan(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, fmt.Sprintf("%dmin", minutes))
	}
	return strings.Join(parts, " ")
}
