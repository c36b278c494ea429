package recurrence

import (
	"strings"
	"time"
)

// Kind names a recurrence rule variant.
type Kind string

const (
	KindMinutely            Kind = "minutely"
	KindHourly              Kind = "hourly"
	KindDaily               Kind = "daily"
	KindWeekly              Kind = "weekly"
	KindMonthlyByDay        Kind = "monthly_by_day"
	KindMonthlyByNthWeekday Kind = "monthly_by_nth_weekday"
	KindAnnuallyByDay       Kind = "annually_by_day"
)

// Kinds lists every supported variant in ascending period order.
var Kinds = []Kind{
	KindMinutely,
	KindHourly,
	KindDaily,
	KindWeekly,
	KindMonthlyByDay,
	KindMonthlyByNthWeekday,
	KindAnnuallyByDay,
}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", newError(ErrUnknownKind, "unknown rule kind %q", s)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
	"su":        time.Sunday,
	"mo":        time.Monday,
	"tu":        time.Tuesday,
	"we":        time.Wednesday,
	"th":        time.Thursday,
	"fr":        time.Friday,
	"sa":        time.Saturday,
}

// ParseWeekday accepts full English names ("monday"), three letter
// abbreviations ("mon") and iCalendar two letter codes ("MO").
func ParseWeekday(s string) (time.Weekday, error) {
	if wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wd, nil
	}
	return 0, newError(ErrInvalidWeekday, "unknown weekday %q", s)
}
