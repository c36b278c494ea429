package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/reprise/recurrence"
	"github.com/emersion/go-ical"
)

// VTIMEZONE sub-components and properties.
const (
	compStandard = "STANDARD"
	compDaylight = "DAYLIGHT"

	propOffsetFrom = "TZOFFSETFROM"
	propOffsetTo   = "TZOFFSETTO"
	propZoneName   = "TZNAME"
)

const floatingFormat = "20060102T150405"

// observance is one stretch of a zone's history with a single offset.
type observance struct {
	dst   bool
	name  string
	onset time.Time
	// from is the offset in force before onset, in seconds east of UTC.
	from int
	to   int
}

// component names the VTIMEZONE sub-component for o.
func (o observance) component() string {
	if o.dst {
		return compDaylight
	}
	return compStandard
}

// localOnset is the onset as read on the clock in force before it.
func (o observance) localOnset() time.Time {
	return o.onset.In(time.FixedZone("", o.from))
}

// observances lists the offsets loc passes through over [from, to), each
// with the transition that opened it. The first observance may open well
// before from; a zone without transitions yields one opening at from.
func observances(loc *time.Location, from, to time.Time) []observance {
	var out []observance
	t := from.In(loc)
	for {
		name, offset := t.Zone()
		onset, end := t.ZoneBounds()
		prior := offset
		if onset.IsZero() {
			onset = t
		} else {
			_, prior = onset.Add(-time.Second).Zone()
		}
		out = append(out, observance{dst: t.IsDST(), name: name, onset: onset, from: prior, to: offset})

		if end.IsZero() || !end.Before(to) {
			return out
		}
		t = end
	}
}

// span returns the earliest start and the latest end of occs, which must not
// be empty.
func span(occs []recurrence.Occurrence) (time.Time, time.Time) {
	from, to := occs[0].StartsAt, occs[0].EndsAt
	for _, o := range occs[1:] {
		from = min(from, o.StartsAt)
		to = max(to, o.EndsAt)
	}
	return time.Unix(from, 0).UTC(), time.Unix(to+1, 0).UTC()
}

// needsTimezone reports whether occs are written as local times that a
// VTIMEZONE must define.
func needsTimezone(occs []recurrence.Occurrence, zone *time.Location) bool {
	return len(occs) > 0 && zone != time.UTC
}

// timezone builds the VTIMEZONE that TZID-qualified times in occs refer to.
func timezone(loc *time.Location, occs []recurrence.Occurrence) *ical.Component {
	vtimezone := &ical.Component{
		Name:  ical.CompTimezone,
		Props: make(ical.Props),
	}
	setRaw(vtimezone.Props, ical.PropTimezoneID, loc.String())

	from, to := span(occs)
	for _, o := range observances(loc, from, to) {
		sub := &ical.Component{
			Name:  o.component(),
			Props: make(ical.Props),
		}
		setRaw(sub.Props, ical.PropDateTimeStart, o.localOnset().Format(floatingFormat))
		setRaw(sub.Props, propOffsetFrom, formatOffset(o.from, false))
		setRaw(sub.Props, propOffsetTo, formatOffset(o.to, false))
		if o.name != "" {
			setRaw(sub.Props, propZoneName, o.name)
		}
		vtimezone.Children = append(vtimezone.Children, sub)
	}
	return vtimezone
}

// xcalTimezone renders the same VTIMEZONE for xCal.
func xcalTimezone(parent *etree.Element, loc *time.Location, occs []recurrence.Occurrence) {
	vtimezone := parent.CreateElement("vtimezone")
	textProp(vtimezone.CreateElement("properties"), "tzid", loc.String())

	components := vtimezone.CreateElement("components")
	from, to := span(occs)
	for _, o := range observances(loc, from, to) {
		props := components.CreateElement(strings.ToLower(o.component())).CreateElement("properties")
		props.CreateElement("dtstart").CreateElement("date-time").SetText(o.localOnset().Format(xcalLocalFormat))
		props.CreateElement("tzoffsetfrom").CreateElement("utc-offset").SetText(formatOffset(o.from, true))
		props.CreateElement("tzoffsetto").CreateElement("utc-offset").SetText(formatOffset(o.to, true))
		if o.name != "" {
			textProp(props, "tzname", o.name)
		}
	}
}

// setRaw stores value as-is, keeping the property's default value type.
func setRaw(props ical.Props, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	props.Set(prop)
}

// formatOffset renders seconds east of UTC as +HHMM, or +HH:MM for xCal.
// Seconds are appended only when present.
func formatOffset(seconds int, colons bool) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	sep := ""
	if colons {
		sep = ":"
	}
	out := fmt.Sprintf("%c%02d%s%02d", sign, seconds/3600, sep, seconds%3600/60)
	if s := seconds % 60; s != 0 {
		out += fmt.Sprintf("%s%02d", sep, s)
	}
	return out
}
