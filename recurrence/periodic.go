package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Minutely repeats every minute from the series wall time on the first day.
type Minutely struct {
	series
}

func NewMinutely(opts SeriesOptions) (*Minutely, error) {
	s, err := newSeries(KindMinutely, "", opts)
	if err != nil {
		return nil, err
	}
	return &Minutely{series: s}, nil
}

func (r *Minutely) String() string { return r.describe("every minute") }

func (r *Minutely) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	return mo.Some(cursor)
}

func (r *Minutely) advance(cursor time.Time) time.Time {
	return cursor.Add(r.period())
}

func (r *Minutely) period() time.Duration { return time.Minute }

// Hourly repeats every elapsed hour, so local readings skip or repeat across
// offset transitions.
type Hourly struct {
	series
}

func NewHourly(opts SeriesOptions) (*Hourly, error) {
	s, err := newSeries(KindHourly, "", opts)
	if err != nil {
		return nil, err
	}
	return &Hourly{series: s}, nil
}

func (r *Hourly) String() string { return r.describe("every hour") }

func (r *Hourly) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	return mo.Some(cursor)
}

func (r *Hourly) advance(cursor time.Time) time.Time {
	return cursor.Add(r.period())
}

func (r *Hourly) period() time.Duration { return time.Hour }
