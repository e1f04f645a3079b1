package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/powermagic/shop/internal/report"
)

func TestParseDateBound_StartOfDay(t *testing.T) {
	got, ok := report.ParseDateBound("2025-03-15", false)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local), got)
}

func TestParseDateBound_EndOfDay(t *testing.T) {
	got, ok := report.ParseDateBound("2025-03-15", true)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 15, 23, 59, 59, 999000000, time.Local), got)
}

func TestParseDateBound_FallbackLayouts(t *testing.T) {
	// Нестрогие форматы тоже принимаются и прижимаются к границе дня.
	for _, input := range []string{
		"2025-03-15T10:30:00Z",
		"2025-03-15T10:30:00",
		"2025/03/15",
	} {
		got, ok := report.ParseDateBound(input, false)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, 0, got.Hour(), "input %q", input)
		assert.Equal(t, 0, got.Minute(), "input %q", input)
	}
}

func TestParseDateBound_Invalid(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "15.03.2025", "2025-13-01"} {
		_, ok := report.ParseDateBound(input, false)
		assert.False(t, ok, "input %q", input)
	}
}
