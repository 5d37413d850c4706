// Package schedule provides the day-granular range arithmetic every
// conflict and billing computation is built on.
package schedule

import (
	"math"
	"time"

	"github.com/clubops/planner/core/model"
)

// Overlaps reports whether two date ranges share at least one calendar day.
// Ranges are inclusive on both ends and compared on whole days. A range
// without a start date never overlaps anything. The function is symmetric
// and reflexive and has no side effects.
func Overlaps(a, b model.DateRange) bool {
	if !a.Applicable() || !b.Applicable() {
		return false
	}
	startA := model.DayStart(a.Start)
	endA := model.DayStart(a.EffectiveEnd())
	startB := model.DayStart(b.Start)
	endB := model.DayStart(b.EffectiveEnd())
	return !startA.After(endB) && !endA.Before(startB)
}

// Days returns the inclusive day count between from and to, rounding the
// raw delta to whole days first. The result is never below one: a leg that
// departs and arrives on the same day is still billed for a full day.
func Days(from, to time.Time) int {
	if from.IsZero() {
		return 0
	}
	if to.IsZero() {
		to = from
	}
	delta := math.Round(to.Sub(from).Hours() / 24)
	days := int(delta) + 1
	if days < 1 {
		return 1
	}
	return days
}

// RangeDays returns the inclusive day count covered by r, or zero when the
// range is inapplicable.
func RangeDays(r model.DateRange) int {
	if !r.Applicable() {
		return 0
	}
	return Days(model.DayStart(r.Start), model.DayStart(r.EffectiveEnd()))
}
