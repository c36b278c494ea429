package recurrence

import "time"

// Interval is an ad hoc query range [StartsAt, EndsAt) with its bounds
// projected onto a zone's wall clock.
type Interval struct {
	StartsAt int64
	EndsAt   int64

	localStart time.Time
	localEnd   time.Time
}

// NewInterval builds an Interval; loc is used only for the local projections.
func NewInterval(startsAt, endsAt int64, loc *time.Location) Interval {
	return Interval{
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		localStart: time.Unix(startsAt, 0).In(loc),
		localEnd:   time.Unix(endsAt, 0).In(loc),
	}
}

func (i Interval) LocalStart() time.Time { return i.localStart }
func (i Interval) LocalEnd() time.Time   { return i.localEnd }

// Window returns the interval as a generation window.
func (i Interval) Window() Window {
	return Window{Start: i.StartsAt, End: i.EndsAt}
}

// Overlaps reports whether o transpires at least partly within the interval.
func (i Interval) Overlaps(o Occurrence) bool {
	return i.StartsAt < o.EndsAt && o.StartsAt < i.EndsAt
}

// Contains reports whether o lies entirely within the interval.
func (i Interval) Contains(o Occurrence) bool {
	return i.StartsAt <= o.StartsAt && o.EndsAt <= i.EndsAt
}
