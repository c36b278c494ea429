package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// Weekly repeats on one weekday.
type Weekly struct {
	series
	Weekday time.Weekday
}

func NewWeekly(weekday time.Weekday, opts SeriesOptions) (*Weekly, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, newError(ErrInvalidWeekday, "weekday %d is not a weekday", weekday)
	}
	s, err := newSeries(KindWeekly, weekday.String(), opts)
	if err != nil {
		return nil, err
	}
	return &Weekly{series: s, Weekday: weekday}, nil
}

func (r *Weekly) String() string {
	return r.describe(fmt.Sprintf("every %s", r.Weekday))
}

func (r *Weekly) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	if cursor.Weekday() == r.Weekday {
		return mo.Some(cursor)
	}
	return mo.None[time.Time]()
}

// advance jumps a week once aligned and probes day by day until then.
func (r *Weekly) advance(cursor time.Time) time.Time {
	if cursor.Weekday() == r.Weekday {
		return clock.AdvanceSafely(cursor, 7, r.opts.WallTime)
	}
	return clock.AdvanceSafely(cursor, 1, r.opts.WallTime)
}
