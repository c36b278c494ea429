package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WallTime is an hour/minute/second reading on a local clock, independent of
// any date. Second 60 is accepted for leap-second inputs and is normalized
// into the following minute when pinned to a date.
type WallTime struct {
	Hour   int
	Minute int
	Second int
}

// RangeError reports a clock field outside its valid range.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// NewWallTime validates and returns a WallTime.
func NewWallTime(hour, minute, second int) (WallTime, error) {
	w := WallTime{Hour: hour, Minute: minute, Second: second}
	if err := w.Validate(); err != nil {
		return WallTime{}, err
	}
	return w, nil
}

// WallTimeOf returns the wall clock reading of t in its own location.
func WallTimeOf(t time.Time) WallTime {
	h, m, s := t.Clock()
	return WallTime{Hour: h, Minute: m, Second: s}
}

// ParseWallTime parses "HH:MM" or "HH:MM:SS".
func ParseWallTime(s string) (WallTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return WallTime{}, fmt.Errorf("invalid wall time %q: expected HH:MM or HH:MM:SS", s)
	}

	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return WallTime{}, fmt.Errorf("invalid wall time %q: %w", s, err)
		}
		fields[i] = n
	}
	return NewWallTime(fields[0], fields[1], fields[2])
}

// Validate checks every field against its range.
func (w WallTime) Validate() error {
	if w.Hour < 0 || w.Hour > 23 {
		return &RangeError{Field: "hour", Value: w.Hour, Min: 0, Max: 23}
	}
	if w.Minute < 0 || w.Minute > 59 {
		return &RangeError{Field: "minute", Value: w.Minute, Min: 0, Max: 59}
	}
	if w.Second < 0 || w.Second > 60 {
		return &RangeError{Field: "second", Value: w.Second, Min: 0, Max: 60}
	}
	return nil
}

// SecondsOfDay returns the offset from local midnight, ignoring transitions.
func (w WallTime) SecondsOfDay() int {
	return w.Hour*3600 + w.Minute*60 + w.Second
}

func (w WallTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", w.Hour, w.Minute, w.Second)
}
