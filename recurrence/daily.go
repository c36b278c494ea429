package recurrence

import (
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
)

// Daily repeats once per local calendar day at the series wall time.
type Daily struct {
	series
}

func NewDaily(opts SeriesOptions) (*Daily, error) {
	s, err := newSeries(KindDaily, "", opts)
	if err != nil {
		return nil, err
	}
	return &Daily{series: s}, nil
}

func (r *Daily) String() string { return r.describe("every day") }

// The cursor sits past the wall time on gap days; it then stands for itself.
func (r *Daily) nextCandidate(cursor time.Time) mo.Option[time.Time] {
	return mo.Some(clock.PinLatest(cursor, r.opts.WallTime).OrElse(cursor))
}

// advance re-pins the wall time so a gap day's shifted cursor does not carry
// over into the following days.
func (r *Daily) advance(cursor time.Time) time.Time {
	return clock.AdvanceSafely(cursor, 1, r.opts.WallTime)
}
