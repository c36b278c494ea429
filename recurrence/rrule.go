package recurrence

import (
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// FromRRule builds a native rule from an RFC 5545 recurrence rule such as
// "FREQ=MONTHLY;BYDAY=-1FR;BYHOUR=17". A leading DTSTART line is honoured as
// the series start and wall time. opts supplies the zone, duration and label;
// UNTIL replaces opts.EndsAt.
//
// Only rules with a native equivalent are accepted: COUNT, BYSETPOS and
// BYEASTER are rejected, as are multi-valued day selectors on monthly and
// yearly rules.
func FromRRule(text string, opts SeriesOptions) (Rule, error) {
	if opts.Zone == nil {
		return nil, newError(ErrInvalidTimeZone, "zone is required")
	}

	ro, err := rrule.StrToROptionInLocation(text, opts.Zone)
	if err != nil {
		return nil, wrapError(ErrUnsupportedRule, err, "parse RRULE %q", text)
	}

	switch {
	case ro.Count > 0:
		return nil, newError(ErrUnsupportedRule, "COUNT is not supported; use UNTIL")
	case len(ro.Bysetpos) > 0:
		return nil, newError(ErrUnsupportedRule, "BYSETPOS is not supported")
	case len(ro.Byeaster) > 0:
		return nil, newError(ErrUnsupportedRule, "BYEASTER is not supported")
	}

	opts.Modifiers = opts.Modifiers.clone()
	if ro.Interval > 0 {
		opts.Interval = ro.Interval
	}
	if !ro.Dtstart.IsZero() {
		start := ro.Dtstart.In(opts.Zone)
		opts.StartsAt = mo.Some(start.Unix())
		opts.WallTime = clock.WallTimeOf(start)
	}
	if !ro.Until.IsZero() {
		// UNTIL is inclusive; bookends are half-open.
		opts.EndsAt = mo.Some(ro.Until.Unix() + 1)
	}
	opts.Modifiers.Months = append(opts.Modifiers.Months, toMonths(ro.Bymonth)...)
	opts.Modifiers.WeekNumbers = append(opts.Modifiers.WeekNumbers, ro.Byweekno...)

	switch ro.Freq {
	case rrule.MINUTELY, rrule.HOURLY:
		return subDailyFromRRule(ro, opts)
	case rrule.DAILY:
		return dailyFromRRule(ro, opts)
	case rrule.WEEKLY:
		return weeklyFromRRule(ro, opts)
	case rrule.MONTHLY:
		return monthlyFromRRule(ro, opts)
	case rrule.YEARLY:
		return yearlyFromRRule(ro, opts)
	}
	return nil, newError(ErrUnsupportedRule, "frequency %v is not supported", ro.Freq)
}

// Sub-daily rules treat every BYxxx part as a filter, as RFC 5545 does.
func subDailyFromRRule(ro *rrule.ROption, opts SeriesOptions) (Rule, error) {
	opts.Modifiers.Hours = append(opts.Modifiers.Hours, ro.Byhour...)
	opts.Modifiers.Minutes = append(opts.Modifiers.Minutes, ro.Byminute...)
	opts.Modifiers.Seconds = append(opts.Modifiers.Seconds, ro.Bysecond...)
	opts.Modifiers.MonthDays = append(opts.Modifiers.MonthDays, ro.Bymonthday...)
	weekdays, err := weekdayFilters(ro.Byweekday)
	if err != nil {
		return nil, err
	}
	opts.Modifiers.Weekdays = append(opts.Modifiers.Weekdays, weekdays...)

	if ro.Freq == rrule.MINUTELY {
		return NewMinutely(opts)
	}
	return NewHourly(opts)
}

func dailyFromRRule(ro *rrule.ROption, opts SeriesOptions) (Rule, error) {
	opts, err := wallTimeFromRRule(ro, opts)
	if err != nil {
		return nil, err
	}
	opts.Modifiers.MonthDays = append(opts.Modifiers.MonthDays, ro.Bymonthday...)
	weekdays, err := weekdayFilters(ro.Byweekday)
	if err != nil {
		return nil, err
	}
	opts.Modifiers.Weekdays = append(opts.Modifiers.Weekdays, weekdays...)
	return NewDaily(opts)
}

func weeklyFromRRule(ro *rrule.ROption, opts SeriesOptions) (Rule, error) {
	if ro.Wkst.Day() != rrule.MO.Day() {
		return nil, newError(ErrUnsupportedRule, "WKST other than MO is not supported")
	}
	opts, err := wallTimeFromRRule(ro, opts)
	if err != nil {
		return nil, err
	}
	opts.Modifiers.MonthDays = append(opts.Modifiers.MonthDays, ro.Bymonthday...)

	var weekday time.Weekday
	switch len(ro.Byweekday) {
	case 0:
		start, ok := opts.StartsAt.Get()
		if !ok {
			return nil, newError(ErrUnsupportedRule, "weekly RRULE needs BYDAY or DTSTART")
		}
		weekday = time.Unix(start, 0).In(opts.Zone).Weekday()
	case 1:
		wd := ro.Byweekday[0]
		if wd.N() != 0 {
			return nil, newError(ErrUnsupportedRule, "weekly BYDAY cannot carry a position")
		}
		weekday = toWeekday(wd)
	default:
		return nil, newError(ErrUnsupportedRule, "weekly RRULE supports a single BYDAY")
	}
	return NewWeekly(weekday, opts)
}

func monthlyFromRRule(ro *rrule.ROption, opts SeriesOptions) (Rule, error) {
	opts, err := wallTimeFromRRule(ro, opts)
	if err != nil {
		return nil, err
	}

	switch {
	case len(ro.Bymonthday) == 1 && len(ro.Byweekday) == 0:
		day := ro.Bymonthday[0]
		if day < 1 {
			return nil, newError(ErrUnsupportedRule, "monthly BYMONTHDAY must be positive")
		}
		return NewMonthlyByDay(day, opts)
	case len(ro.Byweekday) == 1 && len(ro.Bymonthday) == 0:
		wd := ro.Byweekday[0]
		n := wd.N()
		if n == 0 {
			return nil, newError(ErrUnsupportedRule, "monthly BYDAY needs a position such as 2TU or -1FR")
		}
		if n > 0 {
			n--
		}
		return NewMonthlyByNthWeekday(toWeekday(wd), n, opts)
	case len(ro.Byweekday) == 0 && len(ro.Bymonthday) == 0:
		start, ok := opts.StartsAt.Get()
		if !ok {
			return nil, newError(ErrUnsupportedRule, "monthly RRULE needs BYMONTHDAY, BYDAY or DTSTART")
		}
		return NewMonthlyByDay(time.Unix(start, 0).In(opts.Zone).Day(), opts)
	}
	return nil, newError(ErrUnsupportedRule, "monthly RRULE supports a single BYMONTHDAY or BYDAY")
}

func yearlyFromRRule(ro *rrule.ROption, opts SeriesOptions) (Rule, error) {
	opts, err := wallTimeFromRRule(ro, opts)
	if err != nil {
		return nil, err
	}
	if len(ro.Byweekday) > 0 || len(ro.Bymonthday) > 0 {
		return nil, newError(ErrUnsupportedRule, "yearly RRULE supports BYYEARDAY only")
	}

	switch len(ro.Byyearday) {
	case 0:
		start, ok := opts.StartsAt.Get()
		if !ok {
			return nil, newError(ErrUnsupportedRule, "yearly RRULE needs BYYEARDAY or DTSTART")
		}
		return NewAnnuallyByDay(time.Unix(start, 0).In(opts.Zone).YearDay(), opts)
	case 1:
		day := ro.Byyearday[0]
		if day < 1 {
			return nil, newError(ErrUnsupportedRule, "BYYEARDAY must be positive")
		}
		return NewAnnuallyByDay(day, opts)
	}
	return nil, newError(ErrUnsupportedRule, "yearly RRULE supports a single BYYEARDAY")
}

// wallTimeFromRRule lets single-valued BYHOUR, BYMINUTE and BYSECOND parts
// set the wall time of daily and coarser rules.
func wallTimeFromRRule(ro *rrule.ROption, opts SeriesOptions) (SeriesOptions, error) {
	parts := []struct {
		name   string
		values []int
		field  *int
	}{
		{"BYHOUR", ro.Byhour, &opts.WallTime.Hour},
		{"BYMINUTE", ro.Byminute, &opts.WallTime.Minute},
		{"BYSECOND", ro.Bysecond, &opts.WallTime.Second},
	}
	for _, p := range parts {
		switch len(p.values) {
		case 0:
		case 1:
			*p.field = p.values[0]
		default:
			return opts, newError(ErrUnsupportedRule, "%s with several values is not supported at this frequency", p.name)
		}
	}
	return opts, nil
}

func weekdayFilters(days []rrule.Weekday) ([]WeekdayNth, error) {
	out := make([]WeekdayNth, 0, len(days))
	for i := range days {
		if days[i].N() != 0 {
			return nil, newError(ErrUnsupportedRule, "BYDAY position is only supported on monthly rules")
		}
		out = append(out, WeekdayNth{Weekday: toWeekday(days[i])})
	}
	return out, nil
}

// rrule-go numbers weekdays from Monday.
func toWeekday(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}

func toMonths(months []int) []time.Month {
	out := make([]time.Month, 0, len(months))
	for _, m := range months {
		out = append(out, time.Month(m))
	}
	return out
}
