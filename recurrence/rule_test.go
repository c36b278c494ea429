package recurrence

import (
	"testing"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_IntervalKeepsEveryNth(t *testing.T) {
	window := between(time.Date(2024, 1, 1, 0, 0, 0, 0, la), time.Date(2024, 2, 1, 0, 0, 0, 0, la))

	full, err := NewDaily(laOptions(9, 0, 0, time.Hour))
	require.NoError(t, err)
	all := Expand(full, window)
	require.Len(t, all, 31)

	for _, n := range []int{2, 3, 7} {
		opts := laOptions(9, 0, 0, time.Hour)
		opts.Interval = n
		rule, err := NewDaily(opts)
		require.NoError(t, err)

		var want []int64
		for i := 0; i < len(all); i += n {
			want = append(want, all[i].StartsAt)
		}

		var got []int64
		for _, o := range Expand(rule, window) {
			got = append(got, o.StartsAt)
		}
		assert.Equal(t, want, got, "interval %d", n)
	}
}

func TestExpand_WindowIsHalfOpen(t *testing.T) {
	rule, err := NewHourly(laOptions(0, 0, 0, time.Minute))
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, la)
	occs := Expand(rule, between(start, start.Add(3*time.Hour)))
	require.Len(t, occs, 3)
	assert.Equal(t, start.Unix(), occs[0].StartsAt)
	assert.Equal(t, start.Add(2*time.Hour).Unix(), occs[2].StartsAt)
}

func TestExpand_PrivateBookendsWin(t *testing.T) {
	schedule := between(time.Date(2024, 1, 1, 0, 0, 0, 0, la), time.Date(2024, 1, 11, 0, 0, 0, 0, la))

	t.Run("narrower", func(t *testing.T) {
		opts := laOptions(9, 0, 0, time.Hour)
		opts.StartsAt = mo.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, la).Unix())
		opts.EndsAt = mo.Some(time.Date(2024, 1, 5, 0, 0, 0, 0, la).Unix())
		rule, err := NewDaily(opts)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"Wed Jan  3 2024 09:00AM -0800",
			"Thu Jan  4 2024 09:00AM -0800",
		}, localStarts(Expand(rule, schedule), la))
	})

	t.Run("wider", func(t *testing.T) {
		opts := laOptions(9, 0, 0, time.Hour)
		opts.EndsAt = mo.Some(time.Date(2024, 1, 13, 0, 0, 0, 0, la).Unix())
		rule, err := NewDaily(opts)
		require.NoError(t, err)

		occs := Expand(rule, schedule)
		require.Len(t, occs, 12)
		assert.Equal(t, "Fri Jan 12 2024 09:00AM -0800", occs[11].LocalStart(la).Format(layout))
	})
}

func TestExpandWithin_IsSubsetOfExpand(t *testing.T) {
	schedule := between(time.Date(2024, 1, 1, 0, 0, 0, 0, la), time.Date(2024, 1, 2, 0, 0, 0, 0, la))
	query := between(time.Date(2024, 1, 1, 5, 30, 0, 0, la), time.Date(2024, 1, 1, 12, 0, 0, 0, la))

	for _, interval := range []int{1, 2, 3} {
		opts := laOptions(0, 0, 0, 30*time.Minute)
		opts.Interval = interval
		rule, err := NewHourly(opts)
		require.NoError(t, err)

		var want []Occurrence
		for _, o := range Expand(rule, schedule) {
			if o.StartsAt >= query.Start && o.StartsAt < query.End {
				want = append(want, o)
			}
		}
		assert.Equal(t, want, ExpandWithin(rule, schedule, query), "interval %d", interval)
	}
}

func TestExpandWithin_EmptyWhenOutsideBookends(t *testing.T) {
	opts := laOptions(9, 0, 0, time.Hour)
	opts.EndsAt = mo.Some(time.Date(2024, 1, 5, 0, 0, 0, 0, la).Unix())
	rule, err := NewDaily(opts)
	require.NoError(t, err)

	schedule := between(time.Date(2024, 1, 1, 0, 0, 0, 0, la), time.Date(2024, 2, 1, 0, 0, 0, 0, la))
	query := between(time.Date(2024, 1, 10, 0, 0, 0, 0, la), time.Date(2024, 1, 20, 0, 0, 0, 0, la))
	assert.Empty(t, ExpandWithin(rule, schedule, query))
}

func TestExpand_ModifiersFilterBeforeInterval(t *testing.T) {
	opts := laOptions(9, 0, 0, time.Hour)
	opts.Interval = 2
	opts.Modifiers = Modifiers{Weekdays: []WeekdayNth{
		{Weekday: time.Monday}, {Weekday: time.Wednesday}, {Weekday: time.Friday},
	}}
	rule, err := NewDaily(opts)
	require.NoError(t, err)

	occs := Expand(rule, between(time.Date(2024, 1, 1, 0, 0, 0, 0, la), time.Date(2024, 1, 15, 0, 0, 0, 0, la)))
	assert.Equal(t, []string{
		"Mon Jan  1 2024 09:00AM -0800",
		"Fri Jan  5 2024 09:00AM -0800",
		"Wed Jan 10 2024 09:00AM -0800",
	}, localStarts(occs, la))
}

func TestExpand_OtherZones(t *testing.T) {
	london := mustLoad("Europe/London")
	opts := SeriesOptions{Zone: london, WallTime: clock.WallTime{Hour: 1, Minute: 30}, Duration: time.Hour}
	rule, err := NewDaily(opts)
	require.NoError(t, err)

	start := time.Date(2024, 3, 30, 0, 0, 0, 0, london)
	occs := Expand(rule, between(start, start.AddDate(0, 0, 3)))
	got := make([]string, len(occs))
	for i, o := range occs {
		got[i] = o.LocalStart(london).Format("Jan _2 15:04 -0700")
	}
	assert.Equal(t, []string{
		"Mar 30 01:30 +0000",
		"Mar 31 02:30 +0100",
		"Apr  1 01:30 +0100",
	}, got)
}

func TestSeriesID(t *testing.T) {
	a, err := NewWeekly(time.Monday, laOptions(9, 0, 0, time.Hour))
	require.NoError(t, err)
	b, err := NewWeekly(time.Monday, laOptions(9, 0, 0, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())

	labelled := laOptions(9, 0, 0, time.Hour)
	labelled.Label = mo.Some("standup")
	c, err := NewWeekly(time.Monday, labelled)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), c.ID())

	d, err := NewWeekly(time.Tuesday, laOptions(9, 0, 0, time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), d.ID())
}

func TestRule_String(t *testing.T) {
	opts := laOptions(9, 0, 0, time.Hour)
	opts.Label = mo.Some("standup")
	opts.Interval = 2
	rule, err := NewMonthlyByNthWeekday(time.Friday, -1, opts)
	require.NoError(t, err)

	assert.Equal(t, "monthly on last Friday at 09:00:00 for 1h0m0s, keeping every 2 (standup)", rule.String())
	assert.Equal(t, KindMonthlyByNthWeekday, rule.Kind())
}

func TestWindow(t *testing.T) {
	w := Window{Start: 10, End: 20}
	assert.Equal(t, Window{Start: 15, End: 20}, w.Intersect(Window{Start: 15, End: 30}))
	assert.True(t, w.Intersect(Window{Start: 25, End: 30}).Empty())
	assert.Equal(t, Window{Start: 5, End: 25}, w.Widen(5))
	assert.Equal(t, Unbounded, Unbounded.Widen(100))
}
