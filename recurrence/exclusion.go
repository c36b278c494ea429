package recurrence

import (
	"cmp"
	"slices"
)

// SortedExclusions keeps exclusions ordered by ascending end time. It is not
// safe for concurrent use; the owning schedule serializes access.
type SortedExclusions struct {
	items []Exclusion
}

// Add inserts one exclusion.
func (s *SortedExclusions) Add(e Exclusion) {
	s.items = append(s.items, e)
	s.sort()
}

// AddMany inserts a batch and sorts once.
func (s *SortedExclusions) AddMany(es []Exclusion) {
	if len(es) == 0 {
		return
	}
	s.items = append(s.items, es...)
	s.sort()
}

func (s *SortedExclusions) sort() {
	slices.SortStableFunc(s.items, func(a, b Exclusion) int {
		return cmp.Compare(a.EndsAt, b.EndsAt)
	})
}

// IsExcluded reports whether any exclusion overlaps o.
func (s *SortedExclusions) IsExcluded(o Occurrence) bool {
	// Exclusions ending at or before o starts cannot overlap it.
	i, _ := slices.BinarySearchFunc(s.items, o.StartsAt, func(e Exclusion, t int64) int {
		if e.EndsAt <= t {
			return -1
		}
		return 1
	})
	for _, e := range s.items[i:] {
		if e.Overlaps(o) {
			return true
		}
	}
	return false
}

// Len returns the number of exclusions.
func (s *SortedExclusions) Len() int {
	return len(s.items)
}

// All returns a copy in end-time order.
func (s *SortedExclusions) All() []Exclusion {
	return slices.Clone(s.items)
}
