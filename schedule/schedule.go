package schedule

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cyp0633/reprise/clock"
	"github.com/cyp0633/reprise/recurrence"
)

// Schedule is a set of recurrence rules and exclusions bounded by a pair of
// bookends in one time zone. Rules and exclusions can only be added.
//
// A Schedule is safe for concurrent use. Registration takes the write lock;
// each query holds the read lock while it expands, filters and sorts.
type Schedule struct {
	mu sync.RWMutex

	start time.Time
	end   time.Time
	zone  *time.Location

	rules      []recurrence.Rule
	exclusions recurrence.SortedExclusions

	logger *slog.Logger
	config Config
}

// New creates a Schedule spanning [startsAt, endsAt) unix seconds in the
// named IANA zone, starting from DefaultConfig.
func New(startsAt, endsAt int64, zone string, opts ...Option) (*Schedule, error) {
	config := DefaultConfig
	for _, opt := range opts {
		opt(&config)
	}
	return NewWithConfig(startsAt, endsAt, zone, config)
}

// NewWithConfig creates a Schedule with an explicit configuration.
func NewWithConfig(startsAt, endsAt int64, zone string, config Config) (*Schedule, error) {
	loc, err := clock.LoadZone(zone)
	if err != nil {
		return nil, &recurrence.Error{
			Type:    recurrence.ErrInvalidTimeZone,
			Message: "create schedule",
			Err:     err,
		}
	}
	if endsAt < startsAt {
		return nil, &recurrence.Error{
			Type:    recurrence.ErrOutOfRange,
			Message: "schedule ends before it starts",
		}
	}

	config = config.normalize()
	return &Schedule{
		start:  time.Unix(startsAt, 0).In(loc),
		end:    time.Unix(endsAt, 0).In(loc),
		zone:   loc,
		logger: config.Logger,
		config: config,
	}, nil
}

// Location returns the schedule's zone.
func (s *Schedule) Location() *time.Location { return s.zone }

// StartsAt returns the opening bookend in the schedule's zone.
func (s *Schedule) StartsAt() time.Time { return s.start }

// EndsAt returns the closing bookend in the schedule's zone.
func (s *Schedule) EndsAt() time.Time { return s.end }

func (s *Schedule) bookends() recurrence.Window {
	return recurrence.Window{Start: s.start.Unix(), End: s.end.Unix()}
}

// Add registers a rule built elsewhere, such as by recurrence.FromRRule.
func (s *Schedule) Add(rule recurrence.Rule) {
	s.mu.Lock()
	s.rules = append(s.rules, rule)
	s.mu.Unlock()

	label, _ := rule.Options().Label.Get()
	s.logger.Debug("registered rule",
		"kind", rule.Kind(),
		"label", label,
		"series", rule.ID(),
		"rule", rule.String())
}

// register takes a constructor's results directly. On failure the typed nil
// inside rule is discarded.
func (s *Schedule) register(rule recurrence.Rule, err error) (recurrence.Rule, error) {
	if err != nil {
		return nil, err
	}
	s.Add(rule)
	return rule, nil
}

// inZone fills in the schedule's zone when opts does not name one.
func (s *Schedule) inZone(opts recurrence.SeriesOptions) recurrence.SeriesOptions {
	if opts.Zone == nil {
		opts.Zone = s.zone
	}
	return opts
}

// RepeatMinutely registers a rule recurring every minute.
func (s *Schedule) RepeatMinutely(opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewMinutely(s.inZone(opts)))
}

// RepeatHourly registers a rule recurring every hour.
func (s *Schedule) RepeatHourly(opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewHourly(s.inZone(opts)))
}

// RepeatDaily registers a rule recurring every day at opts.WallTime.
func (s *Schedule) RepeatDaily(opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewDaily(s.inZone(opts)))
}

// RepeatWeekly registers a rule recurring on weekday.
func (s *Schedule) RepeatWeekly(weekday time.Weekday, opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewWeekly(weekday, s.inZone(opts)))
}

// RepeatMonthlyByDay registers a rule recurring on a day of the month.
func (s *Schedule) RepeatMonthlyByDay(day int, opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewMonthlyByDay(day, s.inZone(opts)))
}

// RepeatMonthlyByNthWeekday registers a rule recurring on the nth weekday of
// each month. nth is 0-based from the start of the month, or negative from
// its end.
func (s *Schedule) RepeatMonthlyByNthWeekday(weekday time.Weekday, nth int, opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewMonthlyByNthWeekday(weekday, nth, s.inZone(opts)))
}

// RepeatAnnuallyByDay registers a rule recurring on an ordinal day of the year.
func (s *Schedule) RepeatAnnuallyByDay(day int, opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.NewAnnuallyByDay(day, s.inZone(opts)))
}

// RepeatRRule registers the native equivalent of an RFC 5545 RRULE.
func (s *Schedule) RepeatRRule(text string, opts recurrence.SeriesOptions) (recurrence.Rule, error) {
	return s.register(recurrence.FromRRule(text, s.inZone(opts)))
}

// AddExclusion suppresses every occurrence overlapping [startsAt, endsAt).
func (s *Schedule) AddExclusion(startsAt, endsAt int64) error {
	e, err := recurrence.NewExclusion(startsAt, endsAt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.exclusions.Add(e)
	s.mu.Unlock()

	s.logger.Debug("registered exclusions", "count", 1)
	return nil
}

// AddExclusions registers a batch. Nothing is added if any exclusion is
// invalid.
func (s *Schedule) AddExclusions(exclusions []recurrence.Exclusion) error {
	for _, e := range exclusions {
		if _, err := recurrence.NewExclusion(e.StartsAt, e.EndsAt); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.exclusions.AddMany(exclusions)
	s.mu.Unlock()

	s.logger.Debug("registered exclusions", "count", len(exclusions))
	return nil
}

// Rules returns the registered rules in registration order.
func (s *Schedule) Rules() []recurrence.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rules)
}

// Exclusions returns the registered exclusions ordered by end time.
func (s *Schedule) Exclusions() []recurrence.Exclusion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exclusions.All()
}

// Occurrences expands every rule over its bookends and returns the
// occurrences that survive the exclusions, ascending by start.
func (s *Schedule) Occurrences() []recurrence.Occurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query("occurrences", recurrence.Unbounded, func(recurrence.Occurrence) bool { return true })
}

// OccurrencesContainedWithin returns the occurrences lying entirely within
// [startsAt, endsAt).
func (s *Schedule) OccurrencesContainedWithin(startsAt, endsAt int64) []recurrence.Occurrence {
	interval := recurrence.NewInterval(startsAt, endsAt, s.zone)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query("contained_within", interval.Window(), interval.Contains)
}

// OccurrencesOverlappingWith returns the occurrences transpiring at least
// partly within [startsAt, endsAt), including those that began earlier.
func (s *Schedule) OccurrencesOverlappingWith(startsAt, endsAt int64) []recurrence.Occurrence {
	interval := recurrence.NewInterval(startsAt, endsAt, s.zone)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Anything starting more than the longest duration before the interval
	// has ended by the time it opens.
	window := interval.Window().Widen(s.longestDuration())
	return s.query("overlapping_with", window, interval.Overlaps)
}

// OccurrencesBetween dispatches to OccurrencesOverlappingWith when
// includeOverlapping is set, and to OccurrencesContainedWithin otherwise.
func (s *Schedule) OccurrencesBetween(startsAt, endsAt int64, includeOverlapping bool) []recurrence.Occurrence {
	if includeOverlapping {
		return s.OccurrencesOverlappingWith(startsAt, endsAt)
	}
	return s.OccurrencesContainedWithin(startsAt, endsAt)
}

// OccursBetween reports whether OccurrencesBetween would return anything.
func (s *Schedule) OccursBetween(startsAt, endsAt int64, includeOverlapping bool) bool {
	return len(s.OccurrencesBetween(startsAt, endsAt, includeOverlapping)) > 0
}

// longestDuration must be called with the read lock held.
func (s *Schedule) longestDuration() int64 {
	var longest int64
	for _, r := range s.rules {
		longest = max(longest, r.Options().DurationSeconds())
	}
	return longest
}

// query must be called with the read lock held.
func (s *Schedule) query(name string, window recurrence.Window, keep func(recurrence.Occurrence) bool) []recurrence.Occurrence {
	began := time.Now()
	bookends := s.bookends()

	var (
		out       []recurrence.Occurrence
		generated int
	)
	for _, rule := range s.rules {
		occs := recurrence.ExpandWithin(rule, bookends, window)
		generated += len(occs)
		for _, o := range occs {
			if keep(o) && !s.exclusions.IsExcluded(o) {
				out = append(out, o)
			}
		}
	}
	s.sort(out)

	s.logger.Debug("query",
		"query", name,
		"window_start", window.Start,
		"window_end", window.End,
		"generated", generated,
		"kept", len(out),
		"elapsed", time.Since(began))
	return out
}
