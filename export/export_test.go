package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/reprise/recurrence"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	series = uuid.MustParse("0b3f8a52-4c1e-5d6f-9a7b-123456789abc")
	stamp  = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func fixtures() []recurrence.Occurrence {
	start := time.Date(2024, 3, 11, 13, 0, 0, 0, time.UTC).Unix() // 09:00 EDT
	return []recurrence.Occurrence{
		{StartsAt: start, EndsAt: start + 3600, Label: mo.Some("standup"), SeriesID: series},
		{StartsAt: start + 86400, EndsAt: start + 86400 + 1800, SeriesID: series},
	}
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestICS(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name     string
		zone     *time.Location
		contains []string
	}{
		{
			name: "utc",
			contains: []string{
				"DTSTART:20240311T130000Z",
				"DTEND:20240311T140000Z",
				"DTSTAMP:20240101T120000Z",
				"SUMMARY:standup",
				"PRODID:" + DefaultProductID,
			},
		},
		{
			name: "zoned",
			zone: ny,
			contains: []string{
				"DTSTART;TZID=America/New_York:20240311T090000",
				"DTEND;TZID=America/New_York:20240312T093000",
				"BEGIN:VTIMEZONE",
				"TZID:America/New_York",
				"BEGIN:DAYLIGHT",
				"DTSTART:20240310T020000",
				"TZOFFSETFROM:-0500",
				"TZOFFSETTO:-0400",
				"TZNAME:EDT",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ICS(fixtures(), Options{Zone: tt.zone, Stamp: stamp})
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
			assert.Equal(t, tt.zone != nil, strings.Contains(out, "BEGIN:VTIMEZONE"))
		})
	}
}

func TestParseICS_RoundTrip(t *testing.T) {
	for _, zone := range []*time.Location{nil, mustLoad(t, "America/New_York"), mustLoad(t, "Pacific/Honolulu")} {
		var buf bytes.Buffer
		require.NoError(t, WriteICS(&buf, fixtures(), Options{Zone: zone, Stamp: stamp}))

		got, err := ParseICS(&buf)
		require.NoError(t, err)
		assert.Equal(t, fixtures(), got)
	}
}

func TestParseICS_Errors(t *testing.T) {
	_, err := ParseICS(strings.NewReader("not a calendar"))
	assert.Error(t, err)

	broken := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:test",
		"BEGIN:VEVENT",
		"UID:1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:yesterday",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	_, err = ParseICS(strings.NewReader(broken))
	assert.ErrorContains(t, err, "DTSTART")
}

func TestUID(t *testing.T) {
	occs := fixtures()
	assert.Equal(t, UID(occs[0]), UID(occs[0]))
	assert.NotEqual(t, UID(occs[0]), UID(occs[1]))
}

func TestXCal(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	var buf bytes.Buffer
	require.NoError(t, WriteXCal(&buf, fixtures(), Options{Zone: ny, Stamp: stamp, ProductID: "-//test//EN"}))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "icalendar", root.Tag)
	assert.Equal(t, XCalNamespace, root.SelectAttrValue("xmlns", ""))

	prodid := doc.FindElement("/icalendar/vcalendar/properties/prodid/text")
	require.NotNil(t, prodid)
	assert.Equal(t, "-//test//EN", prodid.Text())

	events := doc.FindElements("/icalendar/vcalendar/components/vevent")
	require.Len(t, events, 2)

	daylight := doc.FindElement("/icalendar/vcalendar/components/vtimezone/components/daylight/properties")
	require.NotNil(t, daylight)
	assert.Equal(t, "America/New_York", doc.FindElement("/icalendar/vcalendar/components/vtimezone/properties/tzid/text").Text())
	assert.Equal(t, "2024-03-10T02:00:00", daylight.FindElement("dtstart/date-time").Text())
	assert.Equal(t, "-05:00", daylight.FindElement("tzoffsetfrom/utc-offset").Text())
	assert.Equal(t, "-04:00", daylight.FindElement("tzoffsetto/utc-offset").Text())

	first := events[0]
	assert.Equal(t, "2024-03-11T09:00:00", first.FindElement("properties/dtstart/date-time").Text())
	assert.Equal(t, "America/New_York", first.FindElement("properties/dtstart/parameters/tzid/text").Text())
	assert.Equal(t, "2024-01-01T12:00:00Z", first.FindElement("properties/dtstamp/date-time").Text())
	assert.Equal(t, "standup", first.FindElement("properties/summary/text").Text())
	assert.Equal(t, UID(fixtures()[0]), first.FindElement("properties/uid/text").Text())
	assert.Nil(t, events[1].FindElement("properties/summary"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixtures(), mustLoad(t, "America/New_York")))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-11T09:00:00-04:00", records[0].LocalStart)
	assert.Equal(t, "standup", records[0].Label)
	assert.Equal(t, series.String(), records[1].SeriesID)
	assert.NotContains(t, buf.String()[strings.LastIndex(buf.String(), "{"):], "label")
}

func TestObservances(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	got := observances(ny, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 3)

	tests := []struct {
		component string
		onset     string
		from, to  string
		name      string
	}{
		{compStandard, "20231105T020000", "-0400", "-0500", "EST"},
		{compDaylight, "20240310T020000", "-0500", "-0400", "EDT"},
		{compStandard, "20241103T020000", "-0400", "-0500", "EST"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.component, got[i].component())
		assert.Equal(t, tt.onset, got[i].localOnset().Format(floatingFormat))
		assert.Equal(t, tt.from, formatOffset(got[i].from, false))
		assert.Equal(t, tt.to, formatOffset(got[i].to, false))
		assert.Equal(t, tt.name, got[i].name)
	}

	utc := observances(time.UTC, stamp, stamp.Add(24*time.Hour))
	require.Len(t, utc, 1)
	assert.Equal(t, stamp, utc[0].onset)
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "+0530", formatOffset(5*3600+30*60, false))
	assert.Equal(t, "-10:00", formatOffset(-10*3600, true))
	assert.Equal(t, "-045602", formatOffset(-(4*3600 + 56*60 + 2), false))
	assert.Equal(t, "+0000", formatOffset(0, false))
}
