/*
Package clock provides zone-aware wall clock arithmetic that never fails.

Every operation resolves a local reading to a concrete instant even when the
reading falls inside a daylight-saving gap (it does not exist) or an ambiguous
span (it exists twice). Ambiguous readings prefer the later instant, which is
the one carrying the new offset. Readings inside a gap move forward past it.

	loc, _ := clock.LoadZone("America/Los_Angeles")
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	clock.SetSafely(day, clock.WallTime{Hour: 2, Minute: 30}) // 03:30 PDT
*/
package clock
