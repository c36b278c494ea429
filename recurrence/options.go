package recurrence

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// Window is a half-open range [Start, End) of unix seconds.
type Window struct {
	Start int64
	End   int64
}

// Unbounded covers every representable instant.
var Unbounded = Window{Start: math.MinInt64, End: math.MaxInt64}

// Intersect returns the overlap of w and o, which may be empty.
func (w Window) Intersect(o Window) Window {
	return Window{Start: max(w.Start, o.Start), End: min(w.End, o.End)}
}

// Widen extends both ends by d seconds, saturating at the int64 limits.
func (w Window) Widen(d int64) Window {
	out := w
	if w.Start > math.MinInt64+d {
		out.Start = w.Start - d
	} else {
		out.Start = math.MinInt64
	}
	if w.End < math.MaxInt64-d {
		out.End = w.End + d
	} else {
		out.End = math.MaxInt64
	}
	return out
}

// Empty reports whether no instant satisfies Start <= t < End.
func (w Window) Empty() bool {
	return w.Start >= w.End
}

// SeriesOptions configures a single rule.
type SeriesOptions struct {
	// Zone is the calendar in which WallTime and dates are read. Required.
	Zone *time.Location
	// WallTime is the local start time of each occurrence.
	WallTime clock.WallTime
	// Duration must be a non-negative whole number of seconds.
	Duration time.Duration
	// Interval keeps every Nth generated occurrence. Zero means 1.
	Interval int
	// StartsAt and EndsAt, when present, replace the schedule's bookends
	// for this rule.
	StartsAt mo.Option[int64]
	EndsAt   mo.Option[int64]
	Label    mo.Option[string]
	// Modifiers narrow the generated candidates.
	Modifiers Modifiers
}

// DurationSeconds returns Duration in whole seconds.
func (o SeriesOptions) DurationSeconds() int64 {
	return int64(o.Duration / time.Second)
}

// Bookends returns the rule's effective generation window: its private
// bookends where present, the schedule's otherwise.
func (o SeriesOptions) Bookends(schedule Window) Window {
	w := schedule
	if s, ok := o.StartsAt.Get(); ok {
		w.Start = s
	}
	if e, ok := o.EndsAt.Get(); ok {
		w.End = e
	}
	return w
}

func (o SeriesOptions) normalize() (SeriesOptions, error) {
	if o.Zone == nil {
		return o, newError(ErrInvalidTimeZone, "zone is required")
	}

	if err := o.WallTime.Validate(); err != nil {
		var rangeErr *clock.RangeError
		if errors.As(err, &rangeErr) {
			return o, wrapError(ErrOutOfRange, err, "invalid time of day")
		}
		return o, wrapError(ErrInvalidOption, err, "invalid time of day")
	}

	if o.Duration < 0 {
		return o, newError(ErrOutOfRange, "duration %s must not be negative", o.Duration)
	}
	if o.Duration%time.Second != 0 {
		return o, newError(ErrInvalidOption, "duration %s is not a whole number of seconds", o.Duration)
	}

	switch {
	case o.Interval < 0:
		return o, newError(ErrOutOfRange, "interval %d must be at least 1", o.Interval)
	case o.Interval == 0:
		o.Interval = 1
	}

	if s, ok := o.StartsAt.Get(); ok {
		if e, ok := o.EndsAt.Get(); ok && e < s {
			return o, newError(ErrOutOfRange, "series ends at %d before it starts at %d", e, s)
		}
	}

	if err := o.Modifiers.Validate(); err != nil {
		return o, err
	}
	o.Modifiers = o.Modifiers.clone()
	return o, nil
}

func (m Modifiers) clone() Modifiers {
	return Modifiers{
		Hours:       slices.Clone(m.Hours),
		Minutes:     slices.Clone(m.Minutes),
		Seconds:     slices.Clone(m.Seconds),
		Months:      slices.Clone(m.Months),
		MonthDays:   slices.Clone(m.MonthDays),
		WeekNumbers: slices.Clone(m.WeekNumbers),
		Weekdays:    slices.Clone(m.Weekdays),
	}
}
