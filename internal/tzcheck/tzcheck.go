// Package tzcheck detects when a zone's UTC offset drifts from a recorded
// value, e.g. after a daylight-saving transition that requires shifting a
// cron schedule expressed in UTC.
package tzcheck

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"fx-threshold-alerts/internal/config"
	"fx-threshold-alerts/internal/crossrate"
)

// Result describes one comparison.
type Result struct {
	Zone    string
	Initial time.Duration
	Current time.Duration
}

// Changed reports whether the offset moved.
func (r Result) Changed() bool {
	return r.Initial != r.Current
}

// Check compares the zone's offset at now with the configured initial offset.
// Missing or unparsable settings are *crossrate.ConfigError.
func Check(cfg config.TimezoneConfig, now time.Time) (Result, error) {
	name := strings.TrimSpace(cfg.Name)
	rawOffset := strings.TrimSpace(cfg.InitialOffset)
	if name == "" {
		return Result{}, &crossrate.ConfigError{Field: "TIMEZONE", Reason: "is required"}
	}
	if rawOffset == "" {
		return Result{}, &crossrate.ConfigError{Field: "INITIAL_TZ_OFFSET", Reason: "is required"}
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Result{}, &crossrate.ConfigError{Field: "TIMEZONE", Reason: "unknown zone", Err: err}
	}
	initial, err := ParseOffset(rawOffset)
	if err != nil {
		return Result{}, &crossrate.ConfigError{Field: "INITIAL_TZ_OFFSET", Reason: "invalid offset", Err: err}
	}

	_, seconds := now.In(loc).Zone()
	return Result{
		Zone:    name,
		Initial: initial,
		Current: time.Duration(seconds) * time.Second,
	}, nil
}

// ParseOffset accepts "+HH:MM", "-HH:MM", "HH:MM" or a Go duration ("1h", "-30m").
func ParseOffset(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}

	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(raw, "-"):
		sign, raw = -1, raw[1:]
	case strings.HasPrefix(raw, "+"):
		raw = raw[1:]
	}

	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, fmt.Errorf("offset %q is not ±HH:MM or a duration", raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("offset hours %q out of range", hh)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("offset minutes %q out of range", mm)
	}
	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

// FormatOffset renders an offset as ±HH:MM.
func FormatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign, d = "-", -d
	}
	return fmt.Sprintf("%s%02d:%02d", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}
