/*
capacity.go - Per-faculty teaching-unit budgets

PURPOSE:
  Builds the capacity ledger: every full-time faculty member's remaining
  teaching-unit budget for the current term. The budget is the preferred
  load they filed for the preference term plus the run's overload
  allowance, floored at zero.

LEDGER LIFECYCLE:
  Built once per run, mutated in place by the allocator, discarded with
  the run. The ledger is global across courses within its run: units a
  faculty member spends on one course are gone for every later course.
  Never reuse a ledger across runs.

SEE ALSO:
  - allocator.go: the only mutator
  - run.go: owns the ledger for the duration of one report
*/
package forecast

// Ledger tracks remaining teaching units per faculty member within a
// single run.
type Ledger map[FacultyID]int

// BuildCapacity computes the ledger for every faculty member in the roster
// not excluded by leave. Faculty without a preference record get a base of
// zero, so overload allowance is their entire budget.
func BuildCapacity(roster []FacultyProfile, onLeave map[FacultyID]bool, prefs map[FacultyID]int, overloadUnits int) Ledger {
	ledger := make(Ledger, len(roster))
	for _, f := range roster {
		if onLeave[f.ID] {
			continue
		}
		capacity := prefs[f.ID] + overloadUnits
		if capacity < 0 {
			capacity = 0
		}
		ledger[f.ID] = capacity
	}
	return ledger
}

// Remaining returns the units left for a faculty member. Unknown ids have
// zero capacity.
func (l Ledger) Remaining(id FacultyID) int {
	return l[id]
}

// Consume deducts units from a faculty member's balance. The allocator
// only calls this after checking Remaining, so the balance stays >= 0.
func (l Ledger) Consume(id FacultyID, units int) {
	l[id] -= units
}
