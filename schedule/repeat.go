package schedule

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/cyp0633/reprise/recurrence"
	"github.com/samber/mo"
)

// Option keys accepted by Repeat.
const (
	OptionTimeOfDay = "time_of_day"
	OptionDuration  = "duration_in_seconds"
	OptionInterval  = "interval"
	OptionStartsAt  = "starts_at_unix_timestamp"
	OptionEndsAt    = "ends_at_unix_timestamp"
	OptionLabel     = "label"
)

// Parameter keys accepted by Repeat.
const (
	ParamWeekday    = "weekday"
	ParamDayNumber  = "day_number"
	ParamNthWeekday = "nth_day"
)

var optionKeys = []string{OptionTimeOfDay, OptionDuration, OptionInterval, OptionStartsAt, OptionEndsAt, OptionLabel}

// Repeat registers a rule from loosely typed input, as handed over by a
// scripting host or decoded from JSON. kind is one of recurrence.Kinds.
//
// params carries the kind's discriminants: "weekday" for weekly and
// monthly_by_nth_weekday, "day_number" for monthly_by_day and
// annually_by_day, "nth_day" for monthly_by_nth_weekday.
//
// options must carry "duration_in_seconds" and may carry "time_of_day"
// (a map of "hour", "minute" and "second", or a time.Time whose wall clock is
// read in the schedule's zone), "interval", "starts_at_unix_timestamp",
// "ends_at_unix_timestamp" and "label". Nil values count as absent. Without
// "time_of_day" the rule starts at the wall time of the schedule's opening
// bookend.
func (s *Schedule) Repeat(kind string, params, options map[string]any) (recurrence.Rule, error) {
	k, err := recurrence.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	opts, err := s.seriesOptions(options)
	if err != nil {
		return nil, err
	}

	switch k {
	case recurrence.KindMinutely:
		return s.RepeatMinutely(opts)
	case recurrence.KindHourly:
		return s.RepeatHourly(opts)
	case recurrence.KindDaily:
		return s.RepeatDaily(opts)
	case recurrence.KindWeekly:
		wd, err := weekdayParam(params)
		if err != nil {
			return nil, err
		}
		return s.RepeatWeekly(wd, opts)
	case recurrence.KindMonthlyByDay:
		day, err := intParam(params, ParamDayNumber)
		if err != nil {
			return nil, err
		}
		return s.RepeatMonthlyByDay(day, opts)
	case recurrence.KindMonthlyByNthWeekday:
		wd, err := weekdayParam(params)
		if err != nil {
			return nil, err
		}
		nth, err := intParam(params, ParamNthWeekday)
		if err != nil {
			return nil, err
		}
		return s.RepeatMonthlyByNthWeekday(wd, nth, opts)
	case recurrence.KindAnnuallyByDay:
		day, err := intParam(params, ParamDayNumber)
		if err != nil {
			return nil, err
		}
		return s.RepeatAnnuallyByDay(day, opts)
	}
	return nil, invalidOption("unhandled kind %q", k)
}

func (s *Schedule) seriesOptions(options map[string]any) (recurrence.SeriesOptions, error) {
	opts := recurrence.SeriesOptions{Zone: s.zone}

	for key := range options {
		if !slices.Contains(optionKeys, key) {
			return opts, invalidOption("unknown option %q", key)
		}
	}

	raw, ok := options[OptionDuration]
	if !ok {
		return opts, invalidOption("%s is required", OptionDuration)
	}
	seconds, err := toInt64(OptionDuration, raw)
	if err != nil {
		return opts, err
	}
	if seconds > math.MaxInt64/int64(time.Second) {
		return opts, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: fmt.Sprintf("%s %d is too large", OptionDuration, seconds)}
	}
	opts.Duration = time.Duration(seconds) * time.Second

	opts.WallTime = clock.WallTimeOf(s.start)
	if raw, ok := options[OptionTimeOfDay]; ok && raw != nil {
		if opts.WallTime, err = s.timeOfDay(raw); err != nil {
			return opts, err
		}
	}

	if raw, ok := options[OptionInterval]; ok {
		interval, err := toInt64(OptionInterval, raw)
		if err != nil {
			return opts, err
		}
		if interval < 1 {
			return opts, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: fmt.Sprintf("%s %d must be at least 1", OptionInterval, interval)}
		}
		opts.Interval = int(interval)
	}

	if opts.StartsAt, err = optionalInt64(options, OptionStartsAt); err != nil {
		return opts, err
	}
	if opts.EndsAt, err = optionalInt64(options, OptionEndsAt); err != nil {
		return opts, err
	}

	if raw, ok := options[OptionLabel]; ok && raw != nil {
		label, ok := raw.(string)
		if !ok {
			return opts, invalidOption("%s must be a string, got %T", OptionLabel, raw)
		}
		opts.Label = mo.Some(label)
	}
	return opts, nil
}

func (s *Schedule) timeOfDay(raw any) (clock.WallTime, error) {
	switch v := raw.(type) {
	case time.Time:
		return clock.WallTimeOf(v.In(s.zone)), nil
	case clock.WallTime:
		return v, nil
	case string:
		wt, err := clock.ParseWallTime(v)
		if err != nil {
			var rangeErr *clock.RangeError
			if errors.As(err, &rangeErr) {
				return wt, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: OptionTimeOfDay, Err: err}
			}
			return wt, &recurrence.Error{Type: recurrence.ErrInvalidOption, Message: OptionTimeOfDay, Err: err}
		}
		return wt, nil
	case map[string]any:
		var wt clock.WallTime
		fields := []struct {
			key string
			dst *int
		}{{"hour", &wt.Hour}, {"minute", &wt.Minute}, {"second", &wt.Second}}
		for _, f := range fields {
			raw, ok := v[f.key]
			if !ok {
				continue
			}
			n, err := toInt64(OptionTimeOfDay+"."+f.key, raw)
			if err != nil {
				return wt, err
			}
			if n < math.MinInt32 || n > math.MaxInt32 {
				return wt, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: fmt.Sprintf("%s.%s %d", OptionTimeOfDay, f.key, n)}
			}
			*f.dst = int(n)
		}
		for key := range v {
			if key != "hour" && key != "minute" && key != "second" {
				return wt, invalidOption("unknown %s field %q", OptionTimeOfDay, key)
			}
		}
		return wt, nil
	}
	return clock.WallTime{}, invalidOption("%s must be a map, a time or a string, got %T", OptionTimeOfDay, raw)
}

func weekdayParam(params map[string]any) (time.Weekday, error) {
	raw, ok := params[ParamWeekday]
	if !ok {
		return 0, invalidOption("%s is required", ParamWeekday)
	}
	switch v := raw.(type) {
	case time.Weekday:
		return v, nil
	case string:
		return recurrence.ParseWeekday(v)
	}
	return 0, &recurrence.Error{Type: recurrence.ErrInvalidWeekday, Message: fmt.Sprintf("%s must be a name, got %T", ParamWeekday, raw)}
}

func intParam(params map[string]any, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, invalidOption("%s is required", key)
	}
	n, err := toInt64(key, raw)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: fmt.Sprintf("%s %d", key, n)}
	}
	return int(n), nil
}

func optionalInt64(options map[string]any, key string) (mo.Option[int64], error) {
	raw, ok := options[key]
	if !ok || raw == nil {
		return mo.None[int64](), nil
	}
	n, err := toInt64(key, raw)
	if err != nil {
		return mo.None[int64](), err
	}
	return mo.Some(n), nil
}

// toInt64 accepts Go integers and integral floats, which is what JSON and
// YAML decoders produce.
func toInt64(key string, raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), nil
		}
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	case time.Time:
		return v.Unix(), nil
	default:
		return 0, invalidOption("%s must be an integer, got %T", key, raw)
	}
	return 0, &recurrence.Error{Type: recurrence.ErrOutOfRange, Message: fmt.Sprintf("%s %v is not a representable integer", key, raw)}
}

func invalidOption(format string, args ...any) *recurrence.Error {
	return &recurrence.Error{Type: recurrence.ErrInvalidOption, Message: fmt.Sprintf(format, args...)}
}
