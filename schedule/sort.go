package schedule

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cyp0633/reprise/recurrence"
)

func byStart(a, b recurrence.Occurrence) int {
	return cmp.Compare(a.StartsAt, b.StartsAt)
}

// sort orders occs by start time in place. Buffers at or above the
// configured threshold are split into chunks sorted concurrently, then merged
// pairwise. Both paths are stable, so equal starts keep registration order.
func (s *Schedule) sort(occs []recurrence.Occurrence) {
	workers := s.config.SortWorkers
	if s.config.ParallelSortThreshold == 0 || len(occs) < s.config.ParallelSortThreshold || workers < 2 {
		slices.SortStableFunc(occs, byStart)
		return
	}

	n := len(occs)
	size := (n + workers - 1) / workers
	runs := []int{0}
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		chunk := occs[lo:hi]
		wg.Add(1)
		go func() {
			defer wg.Done()
			slices.SortStableFunc(chunk, byStart)
		}()
		runs = append(runs, hi)
	}
	wg.Wait()

	mergeRuns(occs, runs)
}

// mergeRuns merges the sorted runs occs[runs[i]:runs[i+1]] into one sorted
// slice, merging neighbouring pairs concurrently on each pass.
func mergeRuns(occs []recurrence.Occurrence, runs []int) {
	src := occs
	dst := make([]recurrence.Occurrence, len(occs))
	for len(runs) > 2 {
		next := []int{0}
		var wg sync.WaitGroup
		for i := 0; i+1 < len(runs); i += 2 {
			lo, mid := runs[i], runs[i+1]
			hi := mid
			if i+2 < len(runs) {
				hi = runs[i+2]
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				merge(dst[lo:hi], src[lo:mid], src[mid:hi])
			}()
			next = append(next, hi)
		}
		wg.Wait()
		src, dst = dst, src
		runs = next
	}
	if &src[0] != &occs[0] {
		copy(occs, src)
	}
}

// merge writes a and b into out, taking from a on ties.
func merge(out, a, b []recurrence.Occurrence) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if b[j].StartsAt < a[i].StartsAt {
			out[k] = b[j]
			j++
		} else {
			out[k] = a[i]
			i++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
