package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClockTime(t *testing.T) {
	fallback := ClockTime{Hour: 16, Minute: 0}

	tests := []struct {
		name     string
		input    string
		expected ClockTime
	}{
		{
			name:     "24 hour format",
			input:    "15:00",
			expected: ClockTime{Hour: 15, Minute: 0},
		},
		{
			name:     "24 hour format with seconds",
			input:    "10:30:00",
			expected: ClockTime{Hour: 10, Minute: 30},
		},
		{
			name:     "12 hour format with space",
			input:    "4:00 PM",
			expected: ClockTime{Hour: 16, Minute: 0},
		},
		{
			name:     "12 hour format without space",
			input:    "10:00AM",
			expected: ClockTime{Hour: 10, Minute: 0},
		},
		{
			name:     "empty input falls back",
			input:    "",
			expected: fallback,
		},
		{
			name:     "garbage input falls back",
			input:    "around lunchtime",
			expected: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseClockTime(tt.input, fallback))
		})
	}
}

func TestClockTimeOn(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	combined := ClockTime{Hour: 16, Minute: 30}.On(date)

	assert.Equal(t, time.Date(2025, 6, 10, 16, 30, 0, 0, time.UTC), combined)
}

func TestParseDate(t *testing.T) {
	parsed, ok := ParseDate("2025-06-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, ok = ParseDate("06/10/2025")
	assert.False(t, ok)
}

func TestSameDate(t *testing.T) {
	morning := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(morning, evening))
	assert.False(t, SameDate(morning, nextDay))
}
