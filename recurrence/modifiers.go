package recurrence

import (
	"slices"
	"time"

	"github.com/cyp0633/reprise/clock"
)

// WeekdayNth selects a weekday, optionally restricted to its Nth appearance in
// the month. Nth is 1-based from the start of the month, negative from the
// end (-1 is the last), and 0 matches every appearance.
type WeekdayNth struct {
	Weekday time.Weekday
	Nth     int
}

// Modifiers filter generated candidates by their local calendar fields. A
// candidate survives when it matches every non-empty field; within a field any
// listed value matches. Filters never add candidates.
type Modifiers struct {
	Hours       []int
	Minutes     []int
	Seconds     []int
	Months      []time.Month
	MonthDays   []int // 1..31 or -31..-1 counted from the month's last day
	WeekNumbers []int // ISO 8601 week, 1..53 or -53..-1 counted from the year's last week
	Weekdays    []WeekdayNth
}

// Empty reports whether no filter is set.
func (m Modifiers) Empty() bool {
	return len(m.Hours) == 0 && len(m.Minutes) == 0 && len(m.Seconds) == 0 &&
		len(m.Months) == 0 && len(m.MonthDays) == 0 && len(m.WeekNumbers) == 0 &&
		len(m.Weekdays) == 0
}

// Validate checks each value against its field's range.
func (m Modifiers) Validate() error {
	if err := inRange("by hour", m.Hours, 0, 23, false); err != nil {
		return err
	}
	if err := inRange("by minute", m.Minutes, 0, 59, false); err != nil {
		return err
	}
	if err := inRange("by second", m.Seconds, 0, 60, false); err != nil {
		return err
	}
	for _, month := range m.Months {
		if month < time.January || month > time.December {
			return newError(ErrOutOfRange, "by month %d out of range [1, 12]", month)
		}
	}
	if err := inRange("by month day", m.MonthDays, 1, 31, true); err != nil {
		return err
	}
	if err := inRange("by week number", m.WeekNumbers, 1, 53, true); err != nil {
		return err
	}
	for _, wd := range m.Weekdays {
		if wd.Weekday < time.Sunday || wd.Weekday > time.Saturday {
			return newError(ErrInvalidWeekday, "by weekday %d is not a weekday", wd.Weekday)
		}
		if wd.Nth < -5 || wd.Nth > 5 {
			return newError(ErrOutOfRange, "by weekday position %d out of range [-5, 5]", wd.Nth)
		}
	}
	return nil
}

func inRange(field string, values []int, lo, hi int, signed bool) error {
	for _, v := range values {
		abs := v
		if signed && v < 0 {
			abs = -v
		}
		if abs < lo || abs > hi {
			if signed {
				return newError(ErrOutOfRange, "%s %d out of range ±[%d, %d]", field, v, lo, hi)
			}
			return newError(ErrOutOfRange, "%s %d out of range [%d, %d]", field, v, lo, hi)
		}
	}
	return nil
}

// Match reports whether t, read in its own location, passes every filter.
func (m Modifiers) Match(t time.Time) bool {
	if len(m.Hours) > 0 && !slices.Contains(m.Hours, t.Hour()) {
		return false
	}
	if len(m.Minutes) > 0 && !slices.Contains(m.Minutes, t.Minute()) {
		return false
	}
	if len(m.Seconds) > 0 && !slices.Contains(m.Seconds, t.Second()) {
		return false
	}
	if len(m.Months) > 0 && !slices.Contains(m.Months, t.Month()) {
		return false
	}
	if len(m.MonthDays) > 0 && !matchMonthDay(m.MonthDays, t) {
		return false
	}
	if len(m.WeekNumbers) > 0 && !matchWeekNumber(m.WeekNumbers, t) {
		return false
	}
	if len(m.Weekdays) > 0 && !matchWeekday(m.Weekdays, t) {
		return false
	}
	return true
}

func matchMonthDay(days []int, t time.Time) bool {
	y, month, d := t.Date()
	last := clock.DaysIn(y, month)
	for _, want := range days {
		if want == d || (want < 0 && last+want+1 == d) {
			return true
		}
	}
	return false
}

func matchWeekNumber(weeks []int, t time.Time) bool {
	isoYear, week := t.ISOWeek()
	// Dec 28 always falls in the last ISO week of its year.
	_, total := time.Date(isoYear, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	for _, want := range weeks {
		if want == week || (want < 0 && total+want+1 == week) {
			return true
		}
	}
	return false
}

func matchWeekday(days []WeekdayNth, t time.Time) bool {
	y, month, d := t.Date()
	ordinal := (d-1)/7 + 1
	fromEnd := -((clock.DaysIn(y, month)-d)/7 + 1)
	for _, want := range days {
		if want.Weekday != t.Weekday() {
			continue
		}
		if want.Nth == 0 || want.Nth == ordinal || want.Nth == fromEnd {
			return true
		}
	}
	return false
}
