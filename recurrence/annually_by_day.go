package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// AnnuallyByDay repeats on an ordinal day of the year (1 is January 1st).
// Day 366 only exists in leap years; other years are skipped.
type AnnuallyByDay struct {
	series
	Day int
}

func NewAnnuallyByDay(day int, opts SeriesOptions) (*AnnuallyByDay, error) {
	if day < 1 || day > 366 {
		return nil, newError(ErrOutOfRange, "day of year %d out of range [1, 366]", day)
	}
	s, err := newSeries(KindAnnuallyByDay, fmt.Sprint(day), opts)
	if err != nil {
		return nil, err
	}
	return &AnnuallyByDay{series: s, Day: day}, nil
}

func (r *AnnuallyByDay) String() string {
	return r.describe(fmt.Sprintf("yearly on day %d", r.Day))
}

func (r *AnnuallyByDay) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	if cursor.YearDay() == r.Day {
		return mo.Some(cursor)
	}
	return mo.None[time.Time]()
}

// advance jumps straight to the configured day: later this year when it is
// still ahead, otherwise in the next year that has it.
func (r *AnnuallyByDay) advance(cursor time.Time) time.Time {
	year := cursor.Year()
	if cursor.YearDay() >= r.Day || !r.existsIn(year) {
		year++
		for !r.existsIn(year) {
			year++
		}
	}
	y, m, d := time.Date(year, time.January, r.Day, 0, 0, 0, 0, time.UTC).Date()
	return clock.At(y, m, d, r.opts.WallTime, cursor.Location())
}

func (r *AnnuallyByDay) existsIn(year int) bool {
	return r.Day <= 365 || clock.IsLeap(year)
}
