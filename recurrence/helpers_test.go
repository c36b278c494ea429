package recurrence

import (
	"time"

	"github.com/cyp0633/reprise/clock"
)

const layout = "Mon Jan _2 2006 03:04PM -0700"

var (
	la = mustLoad("America/Los_Angeles")

	// Clocks jump from 02:00 to 03:00 on Sunday March 10, 2024.
	oneMinuteBeforeDST = time.Date(2024, 3, 10, 1, 59, 0, 0, la)
	// Clocks fall back from 02:00 to 01:00 on Sunday November 3, 2024.
	oneMinuteBeforeST = time.Date(2024, 11, 3, 0, 59, 0, 0, la)
)

func mustLoad(name string) *time.Location {
	loc, err := clock.LoadZone(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func laOptions(hour, minute, second int, duration time.Duration) SeriesOptions {
	return SeriesOptions{
		Zone:     la,
		WallTime: clock.WallTime{Hour: hour, Minute: minute, Second: second},
		Duration: duration,
	}
}

func between(start, end time.Time) Window {
	return Window{Start: start.Unix(), End: end.Unix()}
}

func localStarts(occs []Occurrence, loc *time.Location) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.LocalStart(loc).Format(layout)
	}
	return out
}
