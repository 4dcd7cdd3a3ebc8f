/*
terms.go - Academic term ordering and lookback

PURPOSE:
  Every other stage of the pipeline needs to answer "which term is
  current", "which N terms came before T", and "does T fall between S and
  E". The TermSequencer answers all three from a single snapshot of the
  term collection.

ORDERING:
  Terms are totally ordered by (AcadYearStart, TermNumber) ascending.
  "Before" and "after" always mean this ordering, never wall-clock time.

SEE ALSO:
  - eligibility.go: uses Before for the teaching-history window
  - demand.go: uses Before for the historical-weighted fallback
  - capacity.go: leave checks use InRange
*/
package forecast

import "sort"

// TermSequencer indexes one snapshot of the term collection. Build it once
// per run; it is immutable after construction.
type TermSequencer struct {
	ordered []Term
	index   map[TermID]int
}

// NewTermSequencer sorts the given terms ascending by
// (AcadYearStart, TermNumber) and indexes them by id. The input slice is
// not modified.
func NewTermSequencer(terms []Term) *TermSequencer {
	ordered := make([]Term, len(terms))
	copy(ordered, terms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].AcadYearStart != ordered[j].AcadYearStart {
			return ordered[i].AcadYearStart < ordered[j].AcadYearStart
		}
		return ordered[i].TermNumber < ordered[j].TermNumber
	})

	index := make(map[TermID]int, len(ordered))
	for i, t := range ordered {
		index[t.ID] = i
	}
	return &TermSequencer{ordered: ordered, index: index}
}

// Current returns the term flagged current, or nil when none is. Callers
// must treat nil as a fatal precondition failure for the whole run.
func (s *TermSequencer) Current() *Term {
	for i := range s.ordered {
		if s.ordered[i].IsCurrent {
			t := s.ordered[i]
			return &t
		}
	}
	return nil
}

// Ordered returns all terms ascending. The returned slice is a copy.
func (s *TermSequencer) Ordered() []Term {
	out := make([]Term, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Before returns the ids of the n terms strictly preceding termID,
// newest-first. It returns nil when termID is unknown, n <= 0, or no
// earlier term exists; fewer than n ids when history runs out.
func (s *TermSequencer) Before(termID TermID, n int) []TermID {
	pos, ok := s.index[termID]
	if !ok || n <= 0 {
		return nil
	}
	var out []TermID
	for i := pos - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.ordered[i].ID)
	}
	return out
}

// InRange reports whether termID lies within [startID, endID] inclusive
// under term ordering. Any unknown id yields an UnknownTermError; callers
// that must not abort should treat the error as "not in range".
func (s *TermSequencer) InRange(termID, startID, endID TermID) (bool, error) {
	p, ok := s.index[termID]
	if !ok {
		return false, &UnknownTermError{TermID: termID}
	}
	ps, ok := s.index[startID]
	if !ok {
		return false, &UnknownTermError{TermID: startID}
	}
	pe, ok := s.index[endID]
	if !ok {
		return false, &UnknownTermError{TermID: endID}
	}
	return ps <= p && p <= pe, nil
}
