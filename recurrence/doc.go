/*
Package recurrence expands recurrence rules into concrete occurrences.

A Rule is one of a closed set of variants: Minutely, Hourly, Daily, Weekly,
MonthlyByDay, MonthlyByNthWeekday and AnnuallyByDay. Each variant only knows
whether a cursor stands for an occurrence and how to move the cursor on; a
single driver (Expand) walks every variant through its window:

	ny, _ := clock.LoadZone("America/New_York")
	standup, err := recurrence.NewWeekly(time.Monday, recurrence.SeriesOptions{
		Zone:     ny,
		WallTime: clock.WallTime{Hour: 9},
		Duration: time.Hour,
	})
	if err != nil {
		log.Fatal(err)
	}
	occs := recurrence.Expand(standup, recurrence.Window{Start: from, End: to})

Generation never fails. Readings that fall into a daylight-saving gap move
past it; ambiguous readings take the later instant. Rule construction rejects
bad input with an *Error whose Type classifies the problem.

Rules from other calendar software can be imported with FromRRule, which maps
the subset of RFC 5545 that has a native equivalent.
*/
package recurrence
