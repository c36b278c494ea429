// Package export renders occurrence lists for other calendar software:
// iCalendar (RFC 5545), xCal (RFC 6321) and a flat JSON record form.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cyp0633/reprise/recurrence"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

const (
	DefaultProductID = "-//Reprise//Recurring Schedule//EN"

	// PropSeriesID carries the occurrence's series id so ParseICS can restore it.
	PropSeriesID = "X-REPRISE-SERIES"
)

// Options controls how occurrences are rendered.
type Options struct {
	// Zone is the zone DTSTART and DTEND are written in, defined by a
	// VTIMEZONE covering the occurrences. Nil or UTC writes UTC times.
	Zone *time.Location
	// ProductID defaults to DefaultProductID.
	ProductID string
	// Stamp is written as every event's DTSTAMP. Zero means now.
	Stamp time.Time
}

func (o Options) normalize() Options {
	if o.Zone == nil {
		o.Zone = time.UTC
	}
	if o.ProductID == "" {
		o.ProductID = DefaultProductID
	}
	if o.Stamp.IsZero() {
		o.Stamp = time.Now()
	}
	o.Stamp = o.Stamp.UTC().Truncate(time.Second)
	return o
}

// UID derives a stable event UID from the occurrence's series and start.
func UID(o recurrence.Occurrence) string {
	return uuid.NewSHA1(o.SeriesID, []byte(strconv.FormatInt(o.StartsAt, 10))).String()
}

// Calendar builds a VCALENDAR holding one VEVENT per occurrence.
func Calendar(occs []recurrence.Occurrence, opts Options) *ical.Calendar {
	opts = opts.normalize()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, opts.ProductID)
	if needsTimezone(occs, opts.Zone) {
		cal.Children = append(cal.Children, timezone(opts.Zone, occs))
	}

	for _, o := range occs {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, UID(o))
		event.Props.SetDateTime(ical.PropDateTimeStamp, opts.Stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, o.LocalStart(opts.Zone))
		event.Props.SetDateTime(ical.PropDateTimeEnd, o.LocalEnd(opts.Zone))
		if label, ok := o.Label.Get(); ok {
			event.Props.SetText(ical.PropSummary, label)
		}
		event.Props.SetText(PropSeriesID, o.SeriesID.String())

		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

// WriteICS encodes occs as an iCalendar stream.
func WriteICS(w io.Writer, occs []recurrence.Occurrence, opts Options) error {
	if err := ical.NewEncoder(w).Encode(Calendar(occs, opts)); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// ICS returns occs as an iCalendar document.
func ICS(occs []recurrence.Occurrence, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, occs, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseICS reads back the events of an iCalendar stream as occurrences, in
// document order. Events without an end take a zero duration.
func ParseICS(r io.Reader) ([]recurrence.Occurrence, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	events := cal.Events()
	occs := make([]recurrence.Occurrence, 0, len(events))
	for i, event := range events {
		start, err := event.Props.DateTime(ical.PropDateTimeStart, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("event %d: invalid DTSTART: %w", i, err)
		}
		end := start
		if event.Props.Get(ical.PropDateTimeEnd) != nil {
			if end, err = event.Props.DateTime(ical.PropDateTimeEnd, time.UTC); err != nil {
				return nil, fmt.Errorf("event %d: invalid DTEND: %w", i, err)
			}
		}

		o := recurrence.Occurrence{StartsAt: start.Unix(), EndsAt: end.Unix()}
		if summary := event.Props.Get(ical.PropSummary); summary != nil {
			label, err := summary.Text()
			if err != nil {
				return nil, fmt.Errorf("event %d: invalid SUMMARY: %w", i, err)
			}
			o.Label = mo.Some(label)
		}
		if prop := event.Props.Get(PropSeriesID); prop != nil {
			if o.SeriesID, err = uuid.Parse(prop.Value); err != nil {
				return nil, fmt.Errorf("event %d: invalid %s: %w", i, PropSeriesID, err)
			}
		}
		occs = append(occs, o)
	}
	return occs, nil
}
