/*
Package forecast implements the part-time faculty risk / load allocation
engine.

PURPOSE:
  Given the current academic term, the engine estimates per-course section
  demand, partitions eligible full-time faculty into priority pools,
  accounts each member's teaching-unit capacity, and greedily assigns
  sections. Demand that full-time capacity cannot absorb is reported as
  part-time hiring need, with a risk/confidence label per course and a
  run-level summary.

KEY CONCEPTS IN THIS FILE (types.go):
  - Term: an academic term, totally ordered by (AcadYearStart, TermNumber)
  - Course / FacultyProfile / FacultyPreference / Leave / PreEnlistment:
    records read from the document store, never written
  - Named defaults (DefaultSeatCap, DefaultFillRate) used by the demand
    estimator when historical data is missing

DESIGN PRINCIPLES:
  1. Read-only: the engine never persists anything; every run recomputes
     from a fresh view of the store.
  2. Determinism: pool order, course order, and allocation order are all
     stable, so identical inputs produce identical reports.
  3. Type safety: TermID / CourseID / FacultyID are distinct types so they
     cannot be mixed up in store calls.

SEE ALSO:
  - terms.go: term ordering and lookback
  - eligibility.go: priority pool classification
  - capacity.go: per-faculty unit budgets
  - demand.go: tiered section-demand estimation
  - allocator.go: greedy round-robin assignment
  - run.go: pipeline orchestration
*/
package forecast

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TermID string
type CourseID string
type FacultyID string

// =============================================================================
// EMPLOYMENT & STATUS VOCABULARY
// =============================================================================

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FT"
	EmploymentPartTime EmploymentType = "PT"
)

const (
	// SectionStatusActive and SectionStatusPlanned are the statuses that
	// count toward published demand by default.
	SectionStatusActive  = "active"
	SectionStatusPlanned = "planned"

	// LeaveApproved is the approval status that makes a leave exclude a
	// faculty member from pools and capacity.
	LeaveApproved = "approved"
)

// =============================================================================
// ESTIMATOR DEFAULTS
// =============================================================================

// Named so tests can reason about them; the estimator falls back to these
// when the store has no historical signal.
const (
	// DefaultSeatCap stands in for the historical average section capacity
	// when a course has no sections with a recorded seat cap.
	DefaultSeatCap = 40

	// DefaultFillRate stands in for the historical enrolled/seat-cap ratio
	// when a term has no sections with a recorded seat cap.
	DefaultFillRate = 0.9
)

// =============================================================================
// STORE ENTITIES - read-only views of externally owned records
// =============================================================================

// Term is one academic term. IsCurrent marks the term the registrar has
// flagged as in progress; exactly one term should carry it.
type Term struct {
	ID            TermID
	AcadYearStart int
	TermNumber    int
	IsCurrent     bool
}

// Course is a catalog entry. UnitsPerSection of 0 means the catalog does
// not specify a unit load and the run-level default applies. KACIDs are
// the knowledge-area-cluster tags used for qualification matching.
type Course struct {
	ID              CourseID
	Code            string
	DepartmentID    string
	UnitsPerSection int
	KACIDs          []string
}

// FacultyProfile describes one faculty member. QualifiedKACs and
// CourseIDsFromKACs are the two qualification signals the eligibility
// classifier consults for the KAC pool.
type FacultyProfile struct {
	ID                FacultyID
	Name              string
	DepartmentID      string
	Employment        EmploymentType
	QualifiedKACs     []string
	CourseIDsFromKACs []CourseID
}

// FacultyPreference is the preferred teaching load a faculty member
// submitted for a given term. It seeds the capacity ledger.
type FacultyPreference struct {
	FacultyID      FacultyID
	TermID         TermID
	PreferredUnits int
}

// Leave is a leave-of-absence record. A leave excludes its faculty member
// at term T iff ApprovalStatus is LeaveApproved and T falls within
// [StartTermID, EndTermID] under term ordering.
type Leave struct {
	FacultyID      FacultyID
	ApprovalStatus string
	StartTermID    TermID
	EndTermID      TermID
}

// PreEnlistment is the student demand signal for (term, course): how many
// seats students requested during pre-enlistment.
type PreEnlistment struct {
	TermID         TermID
	CourseID       CourseID
	SeatsRequested int
}

// Section is one scheduled offering-instance of a course in a term. The
// engine never reads sections directly; store implementations derive the
// counts and averages in the Store contract from them.
type Section struct {
	ID       string
	TermID   TermID
	CourseID CourseID
	Status   string
	Archived bool
	SeatCap  int
	Enrolled int
}

// FacultyAssignment links a faculty member to a section they taught. The
// historical record behind the history pool.
type FacultyAssignment struct {
	FacultyID FacultyID
	SectionID string
}

// SectionStats summarizes one course's sections within a single term, as
// the historical-fallback estimator consumes them. MeanFillRate is nil
// when no section in the term has a usable seat cap.
type SectionStats struct {
	Count        int
	MeanFillRate *float64
}
