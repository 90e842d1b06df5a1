package models

import "sort"

// TimeWindow is a half-open interval [StartMs, EndMs).
type TimeWindow struct {
	// StartMs is the inclusive interval start.
	StartMs int64 `json:"start_ms" yaml:"start_ms"`
	// EndMs is the exclusive interval end.
	EndMs int64 `json:"end_ms" yaml:"end_ms"`
}

// NewTimeWindow creates a time window.
func NewTimeWindow(startMs, endMs int64) TimeWindow {
	return TimeWindow{StartMs: startMs, EndMs: endMs}
}

// DurationMs returns the window length.
func (w TimeWindow) DurationMs() int64 {
	return w.EndMs - w.StartMs
}

// Contains reports whether the timestamp falls inside the window.
func (w TimeWindow) Contains(timeMs int64) bool {
	return timeMs >= w.StartMs && timeMs < w.EndMs
}

// Overlaps reports whether two windows intersect.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.StartMs < other.EndMs && other.StartMs < w.EndMs
}

// Calendar models resource availability: positive availability windows
// combined with blocked periods that override them.
//
// A timestamp is available iff it falls within at least one window (or
// no windows are defined) AND does not fall within any blocked period.
type Calendar struct {
	// ID is the calendar identifier.
	ID string `json:"id" yaml:"id"`
	// TimeWindows are the availability periods. Empty = always available.
	TimeWindows []TimeWindow `json:"time_windows,omitempty" yaml:"time_windows,omitempty"`
	// BlockedPeriods are unavailability periods overriding TimeWindows.
	BlockedPeriods []TimeWindow `json:"blocked_periods,omitempty" yaml:"blocked_periods,omitempty"`
}

// NewCalendar creates an unconstrained (always available) calendar.
func NewCalendar(id string) *Calendar {
	return &Calendar{ID: id}
}

// WithWindow appends an availability window.
func (c *Calendar) WithWindow(startMs, endMs int64) *Calendar {
	c.TimeWindows = append(c.TimeWindows, NewTimeWindow(startMs, endMs))
	return c
}

// WithBlocked appends a blocked period.
func (c *Calendar) WithBlocked(startMs, endMs int64) *Calendar {
	c.BlockedPeriods = append(c.BlockedPeriods, NewTimeWindow(startMs, endMs))
	return c
}

// IsWorkingTime reports whether the timestamp is within working time.
func (c *Calendar) IsWorkingTime(timeMs int64) bool {
	for _, bp := range c.BlockedPeriods {
		if bp.Contains(timeMs) {
			return false
		}
	}
	if len(c.TimeWindows) == 0 {
		return true
	}
	for _, w := range c.TimeWindows {
		if w.Contains(timeMs) {
			return true
		}
	}
	return false
}

// NextAvailableTime finds the earliest working time at or after fromMs.
// The second return value is false when no future availability exists.
func (c *Calendar) NextAvailableTime(fromMs int64) (int64, bool) {
	if c.IsWorkingTime(fromMs) {
		return fromMs, true
	}

	if len(c.TimeWindows) == 0 {
		// No windows means we are inside a blocked period; try its end.
		for _, bp := range c.BlockedPeriods {
			if bp.Contains(fromMs) && c.IsWorkingTime(bp.EndMs) {
				return bp.EndMs, true
			}
		}
		return 0, false
	}

	candidates := make([]int64, 0, len(c.TimeWindows))
	for _, w := range c.TimeWindows {
		if w.EndMs > fromMs {
			start := w.StartMs
			if start < fromMs {
				start = fromMs
			}
			candidates = append(candidates, start)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	for _, candidate := range candidates {
		if c.IsWorkingTime(candidate) {
			return candidate, true
		}
		for _, bp := range c.BlockedPeriods {
			if bp.Contains(candidate) && c.IsWorkingTime(bp.EndMs) {
				return bp.EndMs, true
			}
		}
	}

	return 0, false
}

// AvailableTimeInRange computes the total available time within
// [startMs, endMs) via clipped-interval arithmetic.
func (c *Calendar) AvailableTimeInRange(startMs, endMs int64) int64 {
	if endMs <= startMs {
		return 0
	}

	rng := NewTimeWindow(startMs, endMs)

	var blocked int64
	for _, bp := range c.BlockedPeriods {
		blocked += overlapDuration(rng, bp)
	}

	if len(c.TimeWindows) == 0 {
		return rng.DurationMs() - blocked
	}

	var available int64
	for _, w := range c.TimeWindows {
		clipped := NewTimeWindow(max(w.StartMs, startMs), min(w.EndMs, endMs))
		if clipped.DurationMs() <= 0 {
			continue
		}
		available += clipped.DurationMs()
		for _, bp := range c.BlockedPeriods {
			available -= overlapDuration(clipped, bp)
		}
	}

	if available < 0 {
		return 0
	}
	return available
}

// overlapDuration returns the intersection length of two windows, or 0.
func overlapDuration(a, b TimeWindow) int64 {
	start := a.StartMs
	if b.StartMs > start {
		start = b.StartMs
	}
	end := a.EndMs
	if b.EndMs < end {
		end = b.EndMs
	}
	if end > start {
		return end - start
	}
	return 0
}
