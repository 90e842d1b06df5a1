package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow(t *testing.T) {
	w := NewTimeWindow(100, 200)
	assert.Equal(t, int64(100), w.DurationMs())
	assert.True(t, w.Contains(100))
	assert.True(t, w.Contains(199))
	assert.False(t, w.Contains(200)) // exclusive end
	assert.False(t, w.Contains(50))
}

func TestTimeWindow_Overlaps(t *testing.T) {
	a := NewTimeWindow(0, 100)
	b := NewTimeWindow(50, 150)
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	// Touching windows do not overlap.
	c := NewTimeWindow(100, 200)
	assert.False(t, a.Overlaps(c))
}

func TestCalendar_AlwaysAvailable(t *testing.T) {
	cal := NewCalendar("cal1")
	assert.True(t, cal.IsWorkingTime(0))
	assert.True(t, cal.IsWorkingTime(1_000_000))
}

func TestCalendar_WithWindows(t *testing.T) {
	cal := NewCalendar("shifts").
		WithWindow(0, 8_000).
		WithWindow(16_000, 24_000)

	assert.True(t, cal.IsWorkingTime(4_000))
	assert.False(t, cal.IsWorkingTime(10_000))
	assert.True(t, cal.IsWorkingTime(20_000))
}

func TestCalendar_BlockedOverrides(t *testing.T) {
	cal := NewCalendar("cal").
		WithWindow(0, 100_000).
		WithBlocked(50_000, 60_000)

	assert.True(t, cal.IsWorkingTime(40_000))
	assert.False(t, cal.IsWorkingTime(55_000))
	assert.True(t, cal.IsWorkingTime(70_000))
}

func TestCalendar_NextAvailableTime(t *testing.T) {
	cal := NewCalendar("shifts").
		WithWindow(0, 8_000).
		WithWindow(16_000, 24_000)

	got, ok := cal.NextAvailableTime(4_000)
	require.True(t, ok)
	assert.Equal(t, int64(4_000), got)

	got, ok = cal.NextAvailableTime(10_000)
	require.True(t, ok)
	assert.Equal(t, int64(16_000), got)
}

func TestCalendar_NextAvailableBlocked(t *testing.T) {
	cal := NewCalendar("cal").WithBlocked(50_000, 60_000)

	got, ok := cal.NextAvailableTime(40_000)
	require.True(t, ok)
	assert.Equal(t, int64(40_000), got)

	got, ok = cal.NextAvailableTime(55_000)
	require.True(t, ok)
	assert.Equal(t, int64(60_000), got)
}

func TestCalendar_NextAvailableExhausted(t *testing.T) {
	cal := NewCalendar("done").WithWindow(0, 1_000)

	_, ok := cal.NextAvailableTime(5_000)
	assert.False(t, ok)
}

func TestCalendar_AvailableTimeInRange(t *testing.T) {
	cal := NewCalendar("cal").
		WithWindow(0, 100_000).
		WithBlocked(40_000, 60_000)

	assert.Equal(t, int64(80_000), cal.AvailableTimeInRange(0, 100_000))
	assert.Equal(t, int64(10_000), cal.AvailableTimeInRange(50_000, 70_000))
}

func TestCalendar_AvailableTimeNoWindows(t *testing.T) {
	cal := NewCalendar("cal").WithBlocked(20_000, 30_000)
	assert.Equal(t, int64(40_000), cal.AvailableTimeInRange(0, 50_000))
}

func TestCalendar_AvailableTimeEmptyRange(t *testing.T) {
	cal := NewCalendar("cal")
	assert.Equal(t, int64(0), cal.AvailableTimeInRange(100, 100))
	assert.Equal(t, int64(0), cal.AvailableTimeInRange(200, 100))
}
