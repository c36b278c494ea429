package export

import (
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/reprise/recurrence"
)

// XCalNamespace is the RFC 6321 namespace
const XCalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

const (
	xcalUTCFormat   = "2006-01-02T15:04:05Z"
	xcalLocalFormat = "2006-01-02T15:04:05"
)

// XCal renders occs as an xCal document, one vevent per occurrence.
func XCal(occs []recurrence.Occurrence, opts Options) *etree.Document {
	opts = opts.normalize()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", XCalNamespace)

	vcalendar := root.CreateElement("vcalendar")
	props := vcalendar.CreateElement("properties")
	textProp(props, "prodid", opts.ProductID)
	textProp(props, "version", "2.0")

	components := vcalendar.CreateElement("components")
	if needsTimezone(occs, opts.Zone) {
		xcalTimezone(components, opts.Zone, occs)
	}
	for _, o := range occs {
		vevent := components.CreateElement("vevent")
		props := vevent.CreateElement("properties")
		textProp(props, "uid", UID(o))
		dateTimeProp(props, "dtstamp", opts.Stamp)
		dateTimeProp(props, "dtstart", o.LocalStart(opts.Zone))
		dateTimeProp(props, "dtend", o.LocalEnd(opts.Zone))
		if label, ok := o.Label.Get(); ok {
			textProp(props, "summary", label)
		}
		textProp(props, "x-reprise-series", o.SeriesID.String())
	}

	doc.Indent(2)
	return doc
}

// WriteXCal writes occs as an indented xCal document.
func WriteXCal(w io.Writer, occs []recurrence.Occurrence, opts Options) error {
	_, err := XCal(occs, opts).WriteTo(w)
	return err
}

func textProp(parent *etree.Element, name, value string) {
	parent.CreateElement(name).CreateElement("text").SetText(value)
}

// dateTimeProp writes UTC instants with a Z suffix and anything else as
// local time qualified by a tzid parameter.
func dateTimeProp(parent *etree.Element, name string, t time.Time) {
	prop := parent.CreateElement(name)
	if t.Location() == time.UTC {
		prop.CreateElement("date-time").SetText(t.Format(xcalUTCFormat))
		return
	}
	params := prop.CreateElement("parameters")
	params.CreateElement("tzid").CreateElement("text").SetText(t.Location().String())
	prop.CreateElement("date-time").SetText(t.Format(xcalLocalFormat))
}
