package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parserNow = time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)

func TestParseDurationSpec(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected DurationSpec
	}{
		{name: "single unit", input: "10m", expected: DurationSpec{Minutes: 10}},
		{name: "compound", input: "1h2m3s", expected: DurationSpec{Hours: 1, Minutes: 2, Seconds: 3}},
		{name: "month and minute", input: "1mo5m", expected: DurationSpec{Months: 1, Minutes: 5}},
		{
			name:     "all units",
			input:    "1y2mo3w4d5h6m7s",
			expected: DurationSpec{Years: 1, Months: 2, Weeks: 3, Days: 4, Hours: 5, Minutes: 6, Seconds: 7},
		},
		{name: "explicit zero", input: "0s", expected: DurationSpec{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParseDurationSpec(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, spec)
		})
	}
}

func TestParseDurationSpec_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"nonsense",
		"10",
		"1h2x",
		"5m1h",
		"1h 2m",
		" 2d ",
		"2d\n",
		"-1h",
		"1H",
		"10m trailing",
		"99999999999999999999s",
		"20000y",
		"9999999999999w",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDurationSpec(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDuration))

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, input, parseErr.Input)
		})
	}
}

func TestParseUntil_FixedUnits(t *testing.T) {
	until, err := ParseUntil("1w2d3h4m5s", parserNow, nil)
	require.NoError(t, err)

	expected := parserNow.Add(9*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)
	assert.Equal(t, expected, until)
}

func TestParseUntil_CalendarMonths(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		input    string
		expected time.Time
	}{
		{
			name:     "jan 31 plus one month clamps to leap february",
			now:      parserNow,
			input:    "1mo",
			expected: time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 plus one month in a common year",
			now:      time.Date(2023, time.January, 31, 8, 30, 0, 0, time.UTC),
			input:    "1mo",
			expected: time.Date(2023, time.February, 28, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "leap day plus one year",
			now:      time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			input:    "1y",
			expected: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "months roll over the year",
			now:      time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC),
			input:    "3mo",
			expected: time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "calendar then fixed units",
			now:      parserNow,
			input:    "1mo1d",
			expected: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			until, err := ParseUntil(tc.input, tc.now, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, until)
		})
	}
}

func TestParseUntil_Fallback(t *testing.T) {
	fallback := 15 * time.Minute

	until, err := ParseUntil("nonsense", parserNow, &fallback)
	require.NoError(t, err)
	assert.Equal(t, parserNow.Add(fallback), until)

	until, err = ParseUntil("", parserNow, &fallback)
	require.NoError(t, err)
	assert.Equal(t, parserNow.Add(fallback), until)

	until, err = ParseUntil("2h", parserNow, &fallback)
	require.NoError(t, err)
	assert.Equal(t, parserNow.Add(2*time.Hour), until)
}

func TestParseUntil_NoFallback(t *testing.T) {
	until, err := ParseUntil("nonsense", parserNow, nil)
	require.ErrorIs(t, err, ErrInvalidDuration)
	assert.True(t, until.IsZero())
}
