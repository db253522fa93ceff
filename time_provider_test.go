package revkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeProvider(t *testing.T) {
	tp := NewDefaultTimeProvider()

	before := time.Now()
	now := tp.Now()
	after := time.Now()
	assert.False(t, now.Before(before) || now.After(after), "Now() outside expected range")

	// A date rollover between the two calls would make this flaky only at
	// midnight.
	assert.Contains(t, []string{before.Format(time.DateOnly), after.Format(time.DateOnly)}, tp.Today())
}

func TestMockTimeProvider(t *testing.T) {
	fixed := time.Date(2025, 2, 15, 14, 30, 0, 0, time.UTC)
	tp := NewMockTimeProvider(fixed)

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "today", got: tp.Today(), expected: "2025-02-15"},
		{name: "weekday", got: tp.Weekday(), expected: "Saturday"},
		{name: "weekday before midnight", got: NewMockTimeProvider(fixed.Add(9*time.Hour + 29*time.Minute)).Weekday(), expected: "Saturday"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}

	assert.Equal(t, fixed, tp.Now())
}
