package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Rule is a recurrence pattern. The set of implementations is closed: every
// variant supplies the two primitives below and shares one expansion driver.
type Rule interface {
	Kind() Kind
	// ID is derived from the rule's kind, parameters and options, so equal
	// rules share an ID across processes.
	ID() uuid.UUID
	Options() SeriesOptions
	String() string

	// nextCandidate reports the occurrence the cursor itself stands for, if any.
	nextCandidate(cursor time.Time) mo.Option[time.Time]
	// advance moves the cursor strictly forward.
	advance(cursor time.Time) time.Time
}

var seriesNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/cyp0633/reprise/series"))

// series carries what every variant has in common.
type series struct {
	kind Kind
	opts SeriesOptions
	id   uuid.UUID
}

func newSeries(kind Kind, params string, opts SeriesOptions) (series, error) {
	opts, err := opts.normalize()
	if err != nil {
		return series{}, err
	}

	key := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%v|%v|%v|%+v",
		kind, params, opts.Zone, opts.WallTime, opts.DurationSeconds(), opts.Interval,
		opts.StartsAt, opts.EndsAt, opts.Label, opts.Modifiers)
	return series{
		kind: kind,
		opts: opts,
		id:   uuid.NewSHA1(seriesNamespace, []byte(key)),
	}, nil
}

func (s series) Kind() Kind             { return s.kind }
func (s series) ID() uuid.UUID          { return s.id }
func (s series) Options() SeriesOptions { return s.opts }

func (s series) describe(what string) string {
	out := fmt.Sprintf("%s at %s for %s", what, s.opts.WallTime, s.opts.Duration)
	if s.opts.Interval > 1 {
		out += fmt.Sprintf(", keeping every %d", s.opts.Interval)
	}
	if label, ok := s.opts.Label.Get(); ok {
		out += fmt.Sprintf(" (%s)", label)
	}
	return out
}

// Expand generates every occurrence of r within its effective bookends: its
// private bookends where set, the schedule's otherwise.
func Expand(r Rule, bookends Window) []Occurrence {
	return ExpandWithin(r, bookends, Unbounded)
}

// ExpandWithin generates the occurrences of r that start inside both its
// effective bookends and within. The result is always a subset of
// Expand(r, bookends): with an interval above one, generation still begins
// at the bookend start so that decimation keeps the same occurrences.
func ExpandWithin(r Rule, bookends, within Window) []Occurrence {
	opts := r.Options()
	bounds := opts.Bookends(bookends)
	window := bounds.Intersect(within)
	if window.Empty() {
		return nil
	}

	from := window.Start
	if opts.Interval > 1 {
		from = bounds.Start
	}

	candidates := generate(r, bounds.Start, Window{Start: from, End: window.End})
	if !opts.Modifiers.Empty() {
		kept := candidates[:0]
		for _, c := range candidates {
			if opts.Modifiers.Match(c) {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	duration := opts.DurationSeconds()
	var out []Occurrence
	for i, c := range candidates {
		if i%opts.Interval != 0 {
			continue
		}
		start := c.Unix()
		if start < window.Start {
			continue
		}
		out = append(out, Occurrence{
			StartsAt: start,
			EndsAt:   start + duration,
			Label:    opts.Label,
			SeriesID: r.ID(),
		})
	}
	return out
}

// periodic rules step by a fixed elapsed duration.
type periodic interface {
	period() time.Duration
}

// generate walks the cursor from the window start and collects every
// candidate with window.Start <= candidate < window.End, in order.
func generate(r Rule, anchor int64, window Window) []time.Time {
	opts := r.Options()
	start := time.Unix(window.Start, 0).In(opts.Zone)
	end := time.Unix(window.End, 0).In(opts.Zone)

	var out []time.Time
	cursor := firstCursor(r, anchor, start)
	for cursor.Before(end) {
		if c, ok := r.nextCandidate(cursor).Get(); ok && !c.Before(start) && c.Before(end) {
			if n := len(out); n == 0 || c.After(out[n-1]) {
				out = append(out, c)
			}
		}

		next := r.advance(cursor)
		if !next.After(cursor) {
			next = clock.AdvanceSafely(cursor, 1, opts.WallTime)
			if !next.After(cursor) {
				next = cursor.Add(24 * time.Hour)
			}
		}
		cursor = next
	}
	return out
}

// firstCursor pins the wall time on the window's opening date. Periodic rules
// have candidates all day long, so they are pinned on the anchor date instead
// and skip whole periods up to the window.
func firstCursor(r Rule, anchor int64, start time.Time) time.Time {
	opts := r.Options()
	p, ok := r.(periodic)
	if !ok || anchor > start.Unix() {
		return clock.SetSafely(start, opts.WallTime)
	}

	cursor := clock.SetSafely(time.Unix(anchor, 0).In(opts.Zone), opts.WallTime)
	if gap := start.Sub(cursor); gap > 0 {
		cursor = cursor.Add(gap / p.period() * p.period())
	}
	return cursor
}
