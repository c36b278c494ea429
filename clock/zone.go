package clock

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"
)

// ErrEmptyZone is returned by LoadZone for an empty or host-local zone name.
var ErrEmptyZone = errors.New("zone name must be an IANA identifier")

// LoadZone resolves an IANA zone identifier such as "America/New_York".
// The empty name and "Local" are rejected so that results never depend on the
// host's configured zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, ErrEmptyZone)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

// Offsets are sampled this far around a naive reading; no zone moves its
// offset more than once within this span.
var probes = []time.Duration{-36 * time.Hour, -12 * time.Hour, 0, 12 * time.Hour, 36 * time.Hour}

// Resolve returns every instant whose reading in loc is the given date and wall
// time, in ascending order. The result is empty inside a gap and holds two
// instants inside an ambiguous span.
func Resolve(year int, month time.Month, day int, w WallTime, loc *time.Location) []time.Time {
	naive := time.Date(year, month, day, w.Hour, w.Minute, w.Second, 0, time.UTC)

	var found []time.Time
	seen := make(map[int]struct{}, len(probes))
	for _, p := range probes {
		_, offset := naive.Add(p).In(loc).Zone()
		if _, ok := seen[offset]; ok {
			continue
		}
		seen[offset] = struct{}{}

		t := naive.Add(-time.Duration(offset) * time.Second).In(loc)
		if sameReading(t, naive) {
			found = append(found, t)
		}
	}

	slices.SortFunc(found, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(found, func(a, b time.Time) bool { return a.Equal(b) })
}

func sameReading(t, naive time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := naive.Date()
	h1, mi1, s1 := t.Clock()
	h2, mi2, s2 := naive.Clock()
	return y1 == y2 && m1 == m2 && d1 == d2 && h1 == h2 && mi1 == mi2 && s1 == s2
}

// PinLatest moves t to wall time w on t's local date. An ambiguous reading
// resolves to the later instant; a reading inside a gap yields None.
func PinLatest(t time.Time, w WallTime) mo.Option[time.Time] {
	y, m, d := t.Date()
	return latest(Resolve(y, m, d, w, t.Location()))
}

func latest(candidates []time.Time) mo.Option[time.Time] {
	if len(candidates) == 0 {
		return mo.None[time.Time]()
	}
	return mo.Some(candidates[len(candidates)-1])
}

// At returns the instant for wall time w on the given local date. A reading in
// a gap is retried one hour later; should that also fail, the reading is
// interpreted in the offset in force before the gap.
func At(year int, month time.Month, day int, w WallTime, loc *time.Location) time.Time {
	if t, ok := latest(Resolve(year, month, day, w, loc)).Get(); ok {
		return t
	}

	if w.Hour < 23 {
		later := w
		later.Hour++
		if t, ok := latest(Resolve(year, month, day, later, loc)).Get(); ok {
			return t
		}
	}

	naive := time.Date(year, month, day, w.Hour, w.Minute, w.Second, 0, time.UTC)
	_, before := naive.Add(-36 * time.Hour).In(loc).Zone()
	return naive.Add(-time.Duration(before) * time.Second).In(loc)
}

// SetSafely pins wall time w onto t's local date, stepping over gaps.
func SetSafely(t time.Time, w WallTime) time.Time {
	y, m, d := t.Date()
	return At(y, m, d, w, t.Location())
}

// AdvanceSafely moves cursor by a signed number of calendar days and pins w on
// the resulting date, preferring the later instant of an ambiguous reading.
// When w does not exist on the target date, the cursor's own pinned instant is
// advanced by whole 24-hour days instead, which keeps the UTC instant and lets
// the new offset show through.
func AdvanceSafely(cursor time.Time, days int, w WallTime) time.Time {
	y, m, d := shiftDate(cursor, days)
	if t, ok := latest(Resolve(y, m, d, w, cursor.Location())).Get(); ok {
		return t
	}
	return SetSafely(cursor, w).Add(time.Duration(days) * 24 * time.Hour)
}

// AddMonths moves t by n calendar months keeping its wall clock reading. The
// day of month is clamped to the target month's length (Jan 31 + 1 month is
// Feb 28 or 29). When the reading does not exist locally, the same month
// arithmetic is done on t's UTC reading and converted back.
func AddMonths(t time.Time, n int) time.Time {
	loc := t.Location()
	y, m, d := addMonthsClamped(t, n)
	if r, ok := latest(Resolve(y, m, d, WallTimeOf(t), loc)).Get(); ok {
		return r
	}

	u := t.UTC()
	uy, um, ud := addMonthsClamped(u, n)
	h, mi, s := u.Clock()
	return time.Date(uy, um, ud, h, mi, s, u.Nanosecond(), time.UTC).In(loc)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return DaysIn(year, time.February) == 29
}

func shiftDate(t time.Time, days int) (int, time.Month, int) {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC).Date()
}

func addMonthsClamped(t time.Time, n int) (int, time.Month, int) {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	ty, tm, _ := first.Date()
	return ty, tm, min(d, DaysIn(ty, tm))
}
