/*
eligibility.go - Priority pool classification

PURPOSE:
  For one course, partitions the department's full-time faculty into three
  disjoint pools, in the priority order the allocator consumes them:

  1. History:      taught this course within the lookback window
  2. KAC:          qualified via knowledge-area-cluster tags
  3. DeptFallback: department membership alone

BASE FILTERS (applied before any pool assignment):
  - full-time, in the department scope
  - not on approved leave at the current term
  - holding a preference record for the preference term, when the run
    requires one

  Faculty failing a base filter appear in no pool at all.

POOL ORDER:
  Within each pool, faculty keep the stable order the store returned them
  in. The allocator walks pools in declared priority order, so both levels
  of ordering are part of the engine's determinism contract.

SEE ALSO:
  - allocator.go: consumes Pools in priority order
  - capacity.go: shares the roster and leave set built by the run
*/
package forecast

import "context"

// Pools is the classifier's output: three disjoint, ordered slices of
// faculty. A closed struct rather than a name-keyed map, so every consumer
// handles exactly these three pools.
type Pools struct {
	History      []FacultyProfile
	KAC          []FacultyProfile
	DeptFallback []FacultyProfile
}

// All returns the pools flattened in priority order.
func (p Pools) All() []FacultyProfile {
	out := make([]FacultyProfile, 0, len(p.History)+len(p.KAC)+len(p.DeptFallback))
	out = append(out, p.History...)
	out = append(out, p.KAC...)
	out = append(out, p.DeptFallback...)
	return out
}

// Classifier partitions a fixed roster of faculty per course. The roster,
// leave set and preference map are built once per run and shared across
// every course in that run.
type Classifier struct {
	// Roster is the department's full-time faculty in stable store order.
	Roster []FacultyProfile

	// OnLeave marks faculty excluded by an approved leave covering the
	// current term.
	OnLeave map[FacultyID]bool

	// Preferences maps faculty to preferred units for the preference term.
	// Presence in the map is what the preference-record filter checks.
	Preferences map[FacultyID]int

	// RequirePreference excludes faculty without a preference record from
	// every pool.
	RequirePreference bool

	// HistoryTerms is the lookback window: the terms immediately preceding
	// the current term, newest-first.
	HistoryTerms []TermID
}

// Classify partitions the roster into pools for one course. The only store
// read is the teaching-history lookup; an empty result in every pool is
// valid (the course simply has no eligible full-time faculty).
func (c *Classifier) Classify(ctx context.Context, store Store, course Course) (Pools, error) {
	taught := map[FacultyID]struct{}{}
	if len(c.HistoryTerms) > 0 {
		var err error
		taught, err = store.FacultyWhoTaught(ctx, course.ID, c.HistoryTerms)
		if err != nil {
			return Pools{}, err
		}
	}

	var pools Pools
	for _, f := range c.Roster {
		if !c.baseEligible(f) {
			continue
		}
		switch {
		case hasKey(taught, f.ID):
			pools.History = append(pools.History, f)
		case kacQualified(f, course):
			pools.KAC = append(pools.KAC, f)
		default:
			pools.DeptFallback = append(pools.DeptFallback, f)
		}
	}
	return pools, nil
}

func (c *Classifier) baseEligible(f FacultyProfile) bool {
	if f.Employment != EmploymentFullTime {
		return false
	}
	if c.OnLeave[f.ID] {
		return false
	}
	if c.RequirePreference {
		if _, ok := c.Preferences[f.ID]; !ok {
			return false
		}
	}
	return true
}

// kacQualified reports whether the faculty member is qualified for the
// course via explicit course membership or cluster-tag intersection.
func kacQualified(f FacultyProfile, course Course) bool {
	for _, id := range f.CourseIDsFromKACs {
		if id == course.ID {
			return true
		}
	}
	for _, kac := range f.QualifiedKACs {
		for _, tag := range course.KACIDs {
			if kac == tag {
				return true
			}
		}
	}
	return false
}

func hasKey(set map[FacultyID]struct{}, id FacultyID) bool {
	_, ok := set[id]
	return ok
}

// OnLeaveSet computes the faculty excluded by leave at the given term. A
// leave is active iff approved and the term falls within its range; leaves
// referencing unknown terms fail closed (treated as not active).
func OnLeaveSet(seq *TermSequencer, leaves []Leave, at TermID) map[FacultyID]bool {
	out := make(map[FacultyID]bool)
	for _, l := range leaves {
		if l.ApprovalStatus != LeaveApproved {
			continue
		}
		active, err := seq.InRange(at, l.StartTermID, l.EndTermID)
		if err != nil {
			continue
		}
		if active {
			out[l.FacultyID] = true
		}
	}
	return out
}
