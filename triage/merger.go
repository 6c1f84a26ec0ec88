package triage

// A RunMerger folds an ordered stream of per-chunk verdicts into
// maximal corruption runs. Feed it every chunk of a range in strictly
// increasing offset order; corrupted chunks either extend the run
// they touch or open a new one, clean chunks never start or extend
// anything. The last run stays extensible until something
// non-adjacent arrives, so no separate finalize step is needed.
//
// A merger serves a single goroutine; the scheduler hands one to each
// worker and combines their runs afterward.
type RunMerger struct {
	runs []Corruption
}

// Chunk records the verdict for the chunk at [offset, offset+length).
func (rm *RunMerger) Chunk(offset int64, length int64, corrupted bool) {
	if !corrupted {
		return
	}

	rm.add(Corruption{Offset: offset, Length: length})
}

// Append folds a later range's runs onto rm's own, merging across the
// boundary when the first incoming run starts exactly where the last
// owned run ends. Runs must arrive in increasing offset order, after
// every chunk of rm's own range.
func (rm *RunMerger) Append(runs []Corruption) {
	for _, c := range runs {
		rm.add(c)
	}
}

func (rm *RunMerger) add(c Corruption) {
	if n := len(rm.runs); n > 0 {
		last := &rm.runs[n-1]
		if last.End() == c.Offset {
			last.Length += c.Length
			return
		}
	}

	rm.runs = append(rm.runs, c)
}

// Runs returns the merged corruption runs so far, in offset order.
func (rm *RunMerger) Runs() []Corruption {
	return rm.runs
}
