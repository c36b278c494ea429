// Package definition loads schedules from YAML files.
//
//	zone: America/New_York
//	starts_at: 2024-01-01T00:00:00Z
//	ends_at: 2024-04-01T00:00:00Z
//	rules:
//	  - kind: weekly
//	    weekday: monday
//	    time_of_day: {hour: 9}
//	    duration: 1h
//	    label: standup
//	  - rrule: "FREQ=MONTHLY;BYDAY=-1FR;BYHOUR=17"
//	    duration: 30m
//	exclusions:
//	  - {starts_at: 2024-02-05T14:00:00Z, ends_at: 2024-02-05T15:00:00Z}
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cyp0633/reprise/recurrence"
	"github.com/cyp0633/reprise/schedule"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// DefaultZone is used when a file names no zone.
const DefaultZone = "UTC"

// File is a schedule definition.
type File struct {
	// Zone is the IANA zone the rules' wall times are read in.
	Zone     string    `yaml:"zone"`
	StartsAt time.Time `yaml:"starts_at"`
	EndsAt   time.Time `yaml:"ends_at"`

	Rules      []Rule      `yaml:"rules"`
	Exclusions []Exclusion `yaml:"exclusions"`
}

// Rule describes one recurrence, either by kind or as an RFC 5545 RRULE.
type Rule struct {
	// Kind is one of recurrence.Kinds. Mutually exclusive with RRule.
	Kind  string `yaml:"kind,omitempty"`
	RRule string `yaml:"rrule,omitempty"`

	// Kind parameters
	Weekday string `yaml:"weekday,omitempty"` // weekly, monthly_by_nth_weekday
	Day     int    `yaml:"day,omitempty"`     // monthly_by_day (1-31), annually_by_day (1-366)
	Nth     *int   `yaml:"nth,omitempty"`     // monthly_by_nth_weekday, 0-based, negative from the end

	// TimeOfDay defaults to the schedule's opening wall time.
	TimeOfDay *TimeOfDay    `yaml:"time_of_day,omitempty"`
	Duration  time.Duration `yaml:"duration,omitempty"`
	Interval  int           `yaml:"interval,omitempty"`
	StartsAt  *time.Time    `yaml:"starts_at,omitempty"`
	EndsAt    *time.Time    `yaml:"ends_at,omitempty"`
	Label     string        `yaml:"label,omitempty"`
}

// TimeOfDay is a wall clock reading. Omitted fields are zero.
type TimeOfDay struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
	Second int `yaml:"second"`
}

// Exclusion suppresses occurrences overlapping [StartsAt, EndsAt).
type Exclusion struct {
	StartsAt time.Time `yaml:"starts_at"`
	EndsAt   time.Time `yaml:"ends_at"`
}

// Normalize fills in defaults for omitted values.
func (f *File) Normalize() {
	if f.Zone == "" {
		f.Zone = DefaultZone
	}
	for i := range f.Rules {
		if f.Rules[i].Interval == 0 {
			f.Rules[i].Interval = 1
		}
	}
	if f.Rules == nil {
		f.Rules = []Rule{}
	}
	if f.Exclusions == nil {
		f.Exclusions = []Exclusion{}
	}
}

// Load reads and normalizes the definition at path.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("schedule definition path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule definition: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and normalizes a definition. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse schedule definition: document is empty")
		}
		return nil, fmt.Errorf("parse schedule definition: %w", err)
	}
	f.Normalize()
	return &f, nil
}

// Build creates the schedule the file describes.
func (f *File) Build(opts ...schedule.Option) (*schedule.Schedule, error) {
	if f.StartsAt.IsZero() || f.EndsAt.IsZero() {
		return nil, errors.New("starts_at and ends_at are required")
	}

	s, err := schedule.New(f.StartsAt.Unix(), f.EndsAt.Unix(), f.Zone, opts...)
	if err != nil {
		return nil, err
	}

	for i, r := range f.Rules {
		if err := r.register(s); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	exclusions := make([]recurrence.Exclusion, len(f.Exclusions))
	for i, e := range f.Exclusions {
		exclusions[i] = recurrence.Exclusion{StartsAt: e.StartsAt.Unix(), EndsAt: e.EndsAt.Unix()}
	}
	if err := s.AddExclusions(exclusions); err != nil {
		return nil, fmt.Errorf("exclusions: %w", err)
	}
	return s, nil
}

func (r Rule) register(s *schedule.Schedule) error {
	if r.Duration%time.Second != 0 {
		return fmt.Errorf("duration %s is not a whole number of seconds", r.Duration)
	}

	switch {
	case r.Kind != "" && r.RRule != "":
		return errors.New("kind and rrule are mutually exclusive")
	case r.RRule != "":
		return r.registerRRule(s)
	case r.Kind != "":
		_, err := s.Repeat(r.Kind, r.params(), r.options())
		return err
	}
	return errors.New("one of kind or rrule is required")
}

func (r Rule) registerRRule(s *schedule.Schedule) error {
	opts := recurrence.SeriesOptions{
		Duration: r.Duration,
		Interval: r.Interval,
	}
	if r.TimeOfDay != nil {
		opts.WallTime.Hour = r.TimeOfDay.Hour
		opts.WallTime.Minute = r.TimeOfDay.Minute
		opts.WallTime.Second = r.TimeOfDay.Second
	}
	if r.StartsAt != nil {
		opts.StartsAt = mo.Some(r.StartsAt.Unix())
	}
	if r.EndsAt != nil {
		opts.EndsAt = mo.Some(r.EndsAt.Unix())
	}
	if r.Label != "" {
		opts.Label = mo.Some(r.Label)
	}
	_, err := s.RepeatRRule(r.RRule, opts)
	return err
}

func (r Rule) params() map[string]any {
	params := map[string]any{}
	if r.Weekday != "" {
		params[schedule.ParamWeekday] = r.Weekday
	}
	if r.Day != 0 {
		params[schedule.ParamDayNumber] = r.Day
	}
	if r.Nth != nil {
		params[schedule.ParamNthWeekday] = *r.Nth
	}
	return params
}

func (r Rule) options() map[string]any {
	options := map[string]any{
		schedule.OptionDuration: int64(r.Duration / time.Second),
		schedule.OptionInterval: r.Interval,
	}
	if r.TimeOfDay != nil {
		options[schedule.OptionTimeOfDay] = map[string]any{
			"hour":   r.TimeOfDay.Hour,
			"minute": r.TimeOfDay.Minute,
			"second": r.TimeOfDay.Second,
		}
	}
	if r.StartsAt != nil {
		options[schedule.OptionStartsAt] = r.StartsAt.Unix()
	}
	if r.EndsAt != nil {
		options[schedule.OptionEndsAt] = r.EndsAt.Unix()
	}
	if r.Label != "" {
		options[schedule.OptionLabel] = r.Label
	}
	return options
}
