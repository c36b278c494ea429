package recurrence

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Occurrence is one realized instance of a rule. StartsAt and EndsAt are unix
// seconds and EndsAt - StartsAt is the rule's duration.
type Occurrence struct {
	StartsAt int64
	EndsAt   int64
	Label    mo.Option[string]
	// SeriesID identifies the rule that produced the occurrence.
	SeriesID uuid.UUID
}

// Start returns the start instant in UTC.
func (o Occurrence) Start() time.Time {
	return time.Unix(o.StartsAt, 0).UTC()
}

// End returns the end instant in UTC.
func (o Occurrence) End() time.Time {
	return time.Unix(o.EndsAt, 0).UTC()
}

// LocalStart projects the start onto loc's wall clock.
func (o Occurrence) LocalStart(loc *time.Location) time.Time {
	return time.Unix(o.StartsAt, 0).In(loc)
}

// LocalEnd projects the end onto loc's wall clock.
func (o Occurrence) LocalEnd(loc *time.Location) time.Time {
	return time.Unix(o.EndsAt, 0).In(loc)
}

func (o Occurrence) Duration() time.Duration {
	return time.Duration(o.EndsAt-o.StartsAt) * time.Second
}

// Exclusion suppresses every occurrence overlapping [StartsAt, EndsAt).
type Exclusion struct {
	StartsAt int64
	EndsAt   int64
}

// NewExclusion rejects an exclusion that ends before it starts.
func NewExclusion(startsAt, endsAt int64) (Exclusion, error) {
	if endsAt < startsAt {
		return Exclusion{}, newError(ErrOutOfRange, "exclusion ends at %d before it starts at %d", endsAt, startsAt)
	}
	return Exclusion{StartsAt: startsAt, EndsAt: endsAt}, nil
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (e Exclusion) Overlaps(o Occurrence) bool {
	return e.StartsAt < o.EndsAt && o.StartsAt < e.EndsAt
}
