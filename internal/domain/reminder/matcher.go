// internal/domain/reminder/matcher.go
package reminder

import "time"

// DefaultTolerance matches the default trigger cadence. It must be at least the real gap
// between invocations or reminders can be skipped.
const DefaultTolerance = 2 * time.Hour

// Match returns the interval that should fire for a form whose deadline is hoursRemaining away.
//
// An interval matches when targetHours-tolerance < hoursRemaining <= targetHours. The schedule
// is walked in order and the first matching interval wins, so when two windows overlap the
// earlier entry takes precedence. Schedules must not be reordered before matching.
func Match(hoursRemaining float64, schedule Schedule, tolerance time.Duration) (Interval, bool) {
	toleranceHours := tolerance.Hours()
	for _, interval := range schedule {
		target := interval.Hours()
		if hoursRemaining <= target && hoursRemaining > target-toleranceHours {
			return interval, true
		}
	}
	return Interval{}, false
}

// HoursUntil is the fractional number of hours from now until deadline; negative once passed.
func HoursUntil(deadline, now time.Time) float64 {
	return deadline.Sub(now).Hours()
}
