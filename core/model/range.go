package model

import "time"

// DateRange is a day-granular, inclusive date range. A zero Start marks the
// range as inapplicable; a zero End collapses the range to the single day of
// Start. Time-of-day and time zone are ignored: Start anchors to the
// beginning of its calendar day, End to the end of it.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// Applicable reports whether the range carries a usable start date.
func (r DateRange) Applicable() bool {
	return !r.Start.IsZero()
}

// EffectiveEnd returns End, or Start when End is unset.
func (r DateRange) EffectiveEnd() time.Time {
	if r.End.IsZero() {
		return r.Start
	}
	return r.End
}

// Valid reports whether the range is well-formed: an applicable range must
// not end before it starts, compared on whole days.
func (r DateRange) Valid() bool {
	if !r.Applicable() {
		return true
	}
	return !DayStart(r.EffectiveEnd()).Before(DayStart(r.Start))
}

// SingleDay builds the one-day range covering the day of t.
func SingleDay(t time.Time) DateRange {
	return DateRange{Start: t}
}

// DayStart returns midnight UTC of t's calendar day. Using the date
// components alone keeps day comparisons independent of the time zone the
// timestamp was recorded in.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
