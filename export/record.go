package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cyp0633/reprise/recurrence"
)

// Record is the flat JSON shape of an occurrence. Local times are RFC 3339
// in the rendering zone.
type Record struct {
	StartsAt   int64  `json:"starts_at_unix_timestamp"`
	EndsAt     int64  `json:"ends_at_unix_timestamp"`
	LocalStart string `json:"local_starts_at"`
	LocalEnd   string `json:"local_ends_at"`
	Label      string `json:"label,omitempty"`
	SeriesID   string `json:"series_id"`
}

// Records converts occs for JSON output, projecting onto loc.
func Records(occs []recurrence.Occurrence, loc *time.Location) []Record {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Record, len(occs))
	for i, o := range occs {
		out[i] = Record{
			StartsAt:   o.StartsAt,
			EndsAt:     o.EndsAt,
			LocalStart: o.LocalStart(loc).Format(time.RFC3339),
			LocalEnd:   o.LocalEnd(loc).Format(time.RFC3339),
			Label:      o.Label.OrEmpty(),
			SeriesID:   o.SeriesID.String(),
		}
	}
	return out
}

// WriteJSON writes occs as an indented JSON array.
func WriteJSON(w io.Writer, occs []recurrence.Occurrence, loc *time.Location) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(occs, loc))
}
