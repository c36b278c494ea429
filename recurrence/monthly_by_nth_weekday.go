package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// MonthlyByNthWeekday repeats on the Nth given weekday of each month. Nth is
// 0-based from the start of the month (0 is the first) or negative from the end
// (-1 is the last). Months without that weekday position are skipped.
type MonthlyByNthWeekday struct {
	series
	Weekday time.Weekday
	Nth     int
}

// No month holds more than five of any weekday.
const maxWeekdaysInMonth = 5

func NewMonthlyByNthWeekday(weekday time.Weekday, nth int, opts SeriesOptions) (*MonthlyByNthWeekday, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, newError(ErrInvalidWeekday, "weekday %d is not a weekday", weekday)
	}
	if nth < -maxWeekdaysInMonth || nth >= maxWeekdaysInMonth {
		return nil, newError(ErrOutOfRange, "nth weekday %d out of range [%d, %d]",
			nth, -maxWeekdaysInMonth, maxWeekdaysInMonth-1)
	}
	s, err := newSeries(KindMonthlyByNthWeekday, fmt.Sprintf("%s/%d", weekday, nth), opts)
	if err != nil {
		return nil, err
	}
	return &MonthlyByNthWeekday{series: s, Weekday: weekday, Nth: nth}, nil
}

func (r *MonthlyByNthWeekday) String() string {
	return r.describe(fmt.Sprintf("monthly on %s %s", ordinalName(r.Nth), r.Weekday))
}

func (r *MonthlyByNthWeekday) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	y, m, _ := cursor.Date()
	days := weekdaysIn(y, m, r.Weekday)

	i := r.Nth
	if i < 0 {
		i += len(days)
	}
	if i < 0 || i >= len(days) {
		return mo.None[time.Time]()
	}
	return mo.Some(clock.At(y, m, days[i], r.opts.WallTime, cursor.Location()))
}

func (r *MonthlyByNthWeekday) advance(cursor time.Time) time.Time {
	y, m, _ := cursor.Date()
	ny, nm, _ := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).Date()
	return clock.At(ny, nm, 1, r.opts.WallTime, cursor.Location())
}

// weekdaysIn lists the days of month falling on wd.
func weekdaysIn(year int, month time.Month, wd time.Weekday) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	day := 1 + (int(wd)-int(first)+7)%7

	days := make([]int, 0, maxWeekdaysInMonth)
	for last := clock.DaysIn(year, month); day <= last; day += 7 {
		days = append(days, day)
	}
	return days
}

func ordinalName(nth int) string {
	switch nth {
	case -1:
		return "last"
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	case 3:
		return "fourth"
	case 4:
		return "fifth"
	}
	return fmt.Sprintf("%d from last", -nth)
}
