package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// MonthlyByDay repeats on a fixed day of the month. Months too short to hold
// the day are skipped.
type MonthlyByDay struct {
	series
	Day int
}

func NewMonthlyByDay(day int, opts SeriesOptions) (*MonthlyByDay, error) {
	if day < 1 || day > 31 {
		return nil, newError(ErrOutOfRange, "day of month %d out of range [1, 31]", day)
	}
	s, err := newSeries(KindMonthlyByDay, fmt.Sprint(day), opts)
	if err != nil {
		return nil, err
	}
	return &MonthlyByDay{series: s, Day: day}, nil
}

func (r *MonthlyByDay) String() string {
	return r.describe(fmt.Sprintf("monthly on day %d", r.Day))
}

func (r *MonthlyByDay) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	if cursor.Day() == r.Day {
		return mo.Some(cursor)
	}
	return mo.None[time.Time]()
}

func (r *MonthlyByDay) advance(cursor time.Time) time.Time {
	if cursor.Day() != r.Day {
		return clock.AdvanceSafely(cursor, 1, r.opts.WallTime)
	}
	next := clock.AddMonths(cursor, 1)
	return clock.PinLatest(next, r.opts.WallTime).OrElse(clock.SetSafely(next, r.opts.WallTime))
}
