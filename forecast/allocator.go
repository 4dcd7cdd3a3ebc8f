/*
allocator.go - Greedy round-robin section assignment

PURPOSE:
  Given a course's demand in sections and the run's capacity ledger,
  assigns sections to eligible faculty one at a time: pools in priority
  order (History, KAC, DeptFallback), faculty within a pool in stable
  order, one section per eligible faculty per pass. Demand left when
  capacity runs out is the course's part-time need.

NOT AN OPTIMIZER:
  This is a single greedy sweep. No backtracking, no reallocation, no
  load balancing. First eligible in priority order wins each section.
  The loop also carries a no-progress safety valve: a full pass that
  assigns nothing terminates the allocation even if the ledger still
  shows units (a ledger/units mismatch must not spin forever).

CONSERVATION INVARIANT:
  Filled + PTNeeded == the demand passed in, always.

SEE ALSO:
  - capacity.go: the ledger this mutates
  - eligibility.go: the pools this consumes
*/
package forecast

// Allocation records how many sections one faculty member received for
// one course.
type Allocation struct {
	FacultyID FacultyID
	Name      string
	Sections  int
}

// AllocationResult is the outcome for one course.
type AllocationResult struct {
	// Allocations in first-assignment order.
	Allocations []Allocation

	// Filled is the number of sections covered by full-time faculty.
	Filled int

	// PTNeeded is the unmet demand, never negative.
	PTNeeded int
}

// Allocate assigns up to demand sections against the ledger. The ledger is
// decremented in place; pass the run's shared ledger so capacity spent on
// one course is unavailable to the next.
func Allocate(demand int, ledger Ledger, pools Pools, unitsPerSection int) AllocationResult {
	result := AllocationResult{PTNeeded: demand}
	if demand <= 0 || unitsPerSection <= 0 {
		if result.PTNeeded < 0 {
			result.PTNeeded = 0
		}
		return result
	}

	roster := pools.All()
	position := make(map[FacultyID]int)

	remaining := demand
	for remaining > 0 && convertibleSections(ledger, roster, unitsPerSection) > 0 {
		progress := false
		for _, f := range roster {
			if remaining == 0 {
				break
			}
			if ledger.Remaining(f.ID) < unitsPerSection {
				continue
			}
			ledger.Consume(f.ID, unitsPerSection)
			remaining--
			progress = true

			idx, seen := position[f.ID]
			if !seen {
				position[f.ID] = len(result.Allocations)
				result.Allocations = append(result.Allocations, Allocation{FacultyID: f.ID, Name: f.Name})
				idx = position[f.ID]
			}
			result.Allocations[idx].Sections++
		}
		if !progress {
			break
		}
	}

	result.Filled = demand - remaining
	result.PTNeeded = remaining
	return result
}

// convertibleSections sums how many whole sections the roster could still
// absorb at the given unit cost.
func convertibleSections(ledger Ledger, roster []FacultyProfile, unitsPerSection int) int {
	total := 0
	for _, f := range roster {
		total += ledger.Remaining(f.ID) / unitsPerSection
	}
	return total
}
