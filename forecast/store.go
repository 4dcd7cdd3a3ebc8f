/*
store.go - Read-only accessor contract over the document store

PURPOSE:
  The engine reads terms, courses, faculty, teaching history, preferences,
  leaves and pre-enlistment signals through this interface. Implementations
  decide how records are actually held (in memory, SQLite, a remote
  document database); the engine only sees typed query results.

READ-ONLY CONTRACT:
  There are no write methods. The engine computes and returns; it never
  persists results or mutates store state.

ORDERING CONTRACT:
  CoursesByDepartment and FacultyByDepartment must return records in a
  stable order across calls. Course order decides who competes for scarce
  capacity first (the ledger is global across courses within a run), and
  faculty order decides allocation order within a pool. Implementations
  typically use insertion or primary-key order; whatever it is, it must
  not change between two identical calls.

IMPLEMENTATIONS:
  - forecast/store/memory.go: in-memory, for tests and demo scenarios
  - store/sqlite/sqlite.go: SQLite-backed

SEE ALSO:
  - run.go: the only consumer of this interface
*/
package forecast

import "context"

// Store is the document-retrieval capability the engine runs against.
type Store interface {
	// Terms returns every term record. Order does not matter; the
	// sequencer sorts by (AcadYearStart, TermNumber).
	Terms(ctx context.Context) ([]Term, error)

	// CoursesByDepartment returns the department's courses in stable order.
	CoursesByDepartment(ctx context.Context, departmentID string) ([]Course, error)

	// FacultyByDepartment returns the department's faculty with the given
	// employment type, in stable order.
	FacultyByDepartment(ctx context.Context, departmentID string, employment EmploymentType) ([]FacultyProfile, error)

	// ApprovedLeaves returns approved leave records for faculty in the
	// department. Unapproved leaves are not returned.
	ApprovedLeaves(ctx context.Context, departmentID string) ([]Leave, error)

	// PreferredUnitsByFaculty returns faculty -> preferred units for every
	// preference record filed for the term.
	PreferredUnitsByFaculty(ctx context.Context, termID TermID) (map[FacultyID]int, error)

	// CountSectionsInTerm counts non-archived sections in the term whose
	// status is one of statuses. Used by the publication guard.
	CountSectionsInTerm(ctx context.Context, termID TermID, statuses []string) (int, error)

	// CountCourseSections counts non-archived sections of one course in
	// one term whose status is one of statuses. Tier-1 demand signal.
	CountCourseSections(ctx context.Context, courseID CourseID, termID TermID, statuses []string) (int, error)

	// FacultyWhoTaught returns the set of faculty who taught at least one
	// section of the course in any of the given terms.
	FacultyWhoTaught(ctx context.Context, courseID CourseID, termIDs []TermID) (map[FacultyID]struct{}, error)

	// PreEnlistment returns the pre-enlistment record for (term, course),
	// or nil when none exists.
	PreEnlistment(ctx context.Context, termID TermID, courseID CourseID) (*PreEnlistment, error)

	// MeanSeatCap returns the mean seat cap over all of the course's
	// sections with a positive seat cap, across all terms, or nil when no
	// such section exists.
	MeanSeatCap(ctx context.Context, courseID CourseID) (*float64, error)

	// TermSectionStats returns the course's section count and mean fill
	// rate (enrolled/seat_cap over sections with a positive seat cap)
	// within one term.
	TermSectionStats(ctx context.Context, courseID CourseID, termID TermID) (SectionStats, error)
}
