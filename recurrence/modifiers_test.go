package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModifiers_Validate(t *testing.T) {
	tests := []struct {
		name string
		mods Modifiers
		ok   bool
	}{
		{name: "empty", ok: true},
		{name: "hours", mods: Modifiers{Hours: []int{0, 23}}, ok: true},
		{name: "hour 24", mods: Modifiers{Hours: []int{24}}},
		{name: "minute 60", mods: Modifiers{Minutes: []int{60}}},
		{name: "leap second", mods: Modifiers{Seconds: []int{60}}, ok: true},
		{name: "second 61", mods: Modifiers{Seconds: []int{61}}},
		{name: "month 13", mods: Modifiers{Months: []time.Month{13}}},
		{name: "negative month day", mods: Modifiers{MonthDays: []int{-31, -1, 1, 31}}, ok: true},
		{name: "month day 0", mods: Modifiers{MonthDays: []int{0}}},
		{name: "month day 32", mods: Modifiers{MonthDays: []int{-32}}},
		{name: "week 53", mods: Modifiers{WeekNumbers: []int{53, -53}}, ok: true},
		{name: "week 54", mods: Modifiers{WeekNumbers: []int{54}}},
		{name: "weekday position", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Monday, Nth: -5}}}, ok: true},
		{name: "weekday position 6", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Monday, Nth: 6}}}},
		{name: "weekday 7", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: 7}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mods.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestModifiers_Match(t *testing.T) {
	// Friday May 31 2024 is the last day, last Friday and fifth Friday of May,
	// in ISO week 22 of 52.
	at := time.Date(2024, 5, 31, 9, 30, 15, 0, la)

	tests := []struct {
		name string
		mods Modifiers
		want bool
	}{
		{name: "empty matches", want: true},
		{name: "hour", mods: Modifiers{Hours: []int{8, 9}}, want: true},
		{name: "wrong hour", mods: Modifiers{Hours: []int{10}}},
		{name: "minute and second", mods: Modifiers{Minutes: []int{30}, Seconds: []int{15}}, want: true},
		{name: "month", mods: Modifiers{Months: []time.Month{time.May}}, want: true},
		{name: "wrong month", mods: Modifiers{Months: []time.Month{time.June}}},
		{name: "month day", mods: Modifiers{MonthDays: []int{31}}, want: true},
		{name: "last month day", mods: Modifiers{MonthDays: []int{-1}}, want: true},
		{name: "second to last month day", mods: Modifiers{MonthDays: []int{-2}}},
		{name: "week number", mods: Modifiers{WeekNumbers: []int{22}}, want: true},
		{name: "week number from end", mods: Modifiers{WeekNumbers: []int{-31}}, want: true},
		{name: "wrong week", mods: Modifiers{WeekNumbers: []int{-1}}},
		{name: "any friday", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Friday}}}, want: true},
		{name: "fifth friday", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Friday, Nth: 5}}}, want: true},
		{name: "last friday", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Friday, Nth: -1}}}, want: true},
		{name: "first friday", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Friday, Nth: 1}}}},
		{name: "monday", mods: Modifiers{Weekdays: []WeekdayNth{{Weekday: time.Monday}}}},
		{name: "all fields must match", mods: Modifiers{Hours: []int{9}, Months: []time.Month{time.June}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mods.Match(at))
		})
	}
}
