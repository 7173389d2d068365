package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDuration is matched by every *ParseError.
var ErrInvalidDuration = errors.New("invalid duration")

// ParseError reports a duration string that could not be used.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q, expected something like 1h2m3s", e.Input)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidDuration
}

// Units are matched in this fixed order: y, mo, w, d, h, m, s.
var durationRegex = regexp.MustCompile(
	`^(?:(\d+)y)?(?:(\d+)mo)?(?:(\d+)w)?(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`,
)

const maxCalendarYears = 10000

// DurationSpec is a parsed duration string. Absent units are zero.
type DurationSpec struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// fixed returns the part of the duration that has a fixed length.
func (d DurationSpec) fixed() (time.Duration, bool) {
	parts := []struct {
		count int
		unit  time.Duration
	}{
		{d.Weeks, 7 * 24 * time.Hour},
		{d.Days, 24 * time.Hour},
		{d.Hours, time.Hour},
		{d.Minutes, time.Minute},
		{d.Seconds, time.Second},
	}

	var total time.Duration
	for _, p := range parts {
		if int64(p.count) > math.MaxInt64/int64(p.unit) {
			return 0, false
		}
		step := time.Duration(p.count) * p.unit
		if total > math.MaxInt64-step {
			return 0, false
		}
		total += step
	}
	return total, true
}

// After returns t advanced by the duration. Years and months follow the
// calendar and clamp to the last day of the target month, so Jan 31 plus
// one month is the last day of February.
func (d DurationSpec) After(t time.Time) time.Time {
	fixed, _ := d.fixed()
	return addMonthsClamped(t, d.Years*12+d.Months).Add(fixed)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// ParseDurationSpec parses a compact duration such as "1y2mo3w4d5h6m7s".
// The whole input must match and at least one unit must be present.
func ParseDurationSpec(s string) (DurationSpec, error) {
	matches := durationRegex.FindStringSubmatch(s)
	if matches == nil {
		return DurationSpec{}, &ParseError{Input: s}
	}

	values := make([]int, len(matches)-1)
	present := false
	for idx, raw := range matches[1:] {
		if raw == "" {
			continue
		}
		present = true
		n, err := strconv.Atoi(raw)
		if err != nil {
			return DurationSpec{}, &ParseError{Input: s}
		}
		values[idx] = n
	}

	spec := DurationSpec{
		Years:   values[0],
		Months:  values[1],
		Weeks:   values[2],
		Days:    values[3],
		Hours:   values[4],
		Minutes: values[5],
		Seconds: values[6],
	}
	if !present {
		return DurationSpec{}, &ParseError{Input: s}
	}
	if spec.Years > maxCalendarYears || spec.Months > maxCalendarYears*12 {
		return DurationSpec{}, &ParseError{Input: s}
	}
	if _, ok := spec.fixed(); !ok {
		return DurationSpec{}, &ParseError{Input: s}
	}
	return spec, nil
}

// ParseUntil resolves a duration string to a point in time relative to now.
// When the string is unusable and fallback is non-nil, now+*fallback is
// returned instead of an error.
func ParseUntil(s string, now time.Time, fallback *time.Duration) (time.Time, error) {
	spec, err := ParseDurationSpec(s)
	if err != nil {
		if fallback != nil {
			return now.Add(*fallback), nil
		}
		return time.Time{}, err
	}
	return spec.After(now), nil
}
