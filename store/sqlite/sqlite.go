/*
Package sqlite provides a SQLite-backed implementation of the forecast
Store contract.

PURPOSE:
  Holds the registrar collections (terms, courses, faculty, sections,
  teaching assignments, preferences, leaves, pre-enlistments) in SQLite
  and answers the engine's typed queries over them. The same SQL shapes
  apply to any relational backend; only dialect details differ.

READ PATH ONLY:
  The engine never writes. The single write entry point is ReplaceAll,
  the bulk seeding operation used by demo scenarios and tests; it swaps
  the whole dataset inside one transaction.

ORDERING:
  CoursesByDepartment and FacultyByDepartment order by rowid, i.e.
  insertion order. That satisfies the engine's stable-order contract:
  two identical calls always return the same sequence.

LIST COLUMNS:
  KAC tags and qualification course lists are stored as JSON arrays in
  TEXT columns. They are opaque to SQL; all matching happens in the
  engine.

USAGE:
  store, err := sqlite.New("./data/loads.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  report, err := forecast.Run(ctx, store, params)

SEE ALSO:
  - forecast/store.go: the interface this implements
  - forecast/store/memory.go: the in-memory counterpart
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/animoassign/load-engine/forecast"
	seedstore "github.com/animoassign/load-engine/forecast/store"
)

// Store implements forecast.Store and seedstore.Seeder using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS terms (
		id TEXT PRIMARY KEY,
		acad_year_start INTEGER NOT NULL,
		term_number INTEGER NOT NULL,
		is_current INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		department_id TEXT NOT NULL,
		units_per_section INTEGER NOT NULL DEFAULT 0,
		kac_ids TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department_id);

	CREATE TABLE IF NOT EXISTS faculty (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department_id TEXT NOT NULL,
		employment TEXT NOT NULL,
		qualified_kacs TEXT NOT NULL DEFAULT '[]',
		course_ids_from_kacs TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_faculty_department ON faculty(department_id, employment);

	CREATE TABLE IF NOT EXISTS sections (
		id TEXT PRIMARY KEY,
		term_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		status TEXT NOT NULL,
		archived INTEGER NOT NULL DEFAULT 0,
		seat_cap INTEGER NOT NULL DEFAULT 0,
		enrolled INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sections_term ON sections(term_id, status);
	CREATE INDEX IF NOT EXISTS idx_sections_course_term ON sections(course_id, term_id);

	CREATE TABLE IF NOT EXISTS assignments (
		faculty_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		PRIMARY KEY (faculty_id, section_id)
	);

	CREATE TABLE IF NOT EXISTS preferences (
		faculty_id TEXT NOT NULL,
		term_id TEXT NOT NULL,
		preferred_units INTEGER NOT NULL,
		PRIMARY KEY (faculty_id, term_id)
	);

	CREATE TABLE IF NOT EXISTS leaves (
		faculty_id TEXT NOT NULL,
		approval_status TEXT NOT NULL,
		start_term_id TEXT NOT NULL,
		end_term_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS preenlistments (
		term_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		seats_requested INTEGER NOT NULL,
		PRIMARY KEY (term_id, course_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// FORECAST STORE - read path
// =============================================================================

func (s *Store) Terms(ctx context.Context) ([]forecast.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, acad_year_start, term_number, is_current
		 FROM terms ORDER BY acad_year_start, term_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forecast.Term
	for rows.Next() {
		var t forecast.Term
		var current int
		if err := rows.Scan(&t.ID, &t.AcadYearStart, &t.TermNumber, &current); err != nil {
			return nil, err
		}
		t.IsCurrent = current != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CoursesByDepartment(ctx context.Context, departmentID string) ([]forecast.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, department_id, units_per_section, kac_ids
		 FROM courses WHERE department_id = ? ORDER BY rowid`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forecast.Course
	for rows.Next() {
		var c forecast.Course
		var kacJSON string
		if err := rows.Scan(&c.ID, &c.Code, &c.DepartmentID, &c.UnitsPerSection, &kacJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kacJSON), &c.KACIDs); err != nil {
			return nil, fmt.Errorf("course %s: bad kac_ids: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) FacultyByDepartment(ctx context.Context, departmentID string, employment forecast.EmploymentType) ([]forecast.FacultyProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, department_id, employment, qualified_kacs, course_ids_from_kacs
		 FROM faculty WHERE department_id = ? AND employment = ? ORDER BY rowid`,
		departmentID, string(employment))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forecast.FacultyProfile
	for rows.Next() {
		var f forecast.FacultyProfile
		var kacsJSON, coursesJSON string
		if err := rows.Scan(&f.ID, &f.Name, &f.DepartmentID, &f.Employment, &kacsJSON, &coursesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kacsJSON), &f.QualifiedKACs); err != nil {
			return nil, fmt.Errorf("faculty %s: bad qualified_kacs: %w", f.ID, err)
		}
		if err := json.Unmarshal([]byte(coursesJSON), &f.CourseIDsFromKACs); err != nil {
			return nil, fmt.Errorf("faculty %s: bad course_ids_from_kacs: %w", f.ID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) ApprovedLeaves(ctx context.Context, departmentID string) ([]forecast.Leave, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.faculty_id, l.approval_status, l.start_term_id, l.end_term_id
		 FROM leaves l
		 JOIN faculty f ON f.id = l.faculty_id
		 WHERE f.department_id = ? AND l.approval_status = ?
		 ORDER BY l.rowid`,
		departmentID, forecast.LeaveApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []forecast.Leave
	for rows.Next() {
		var l forecast.Leave
		if err := rows.Scan(&l.FacultyID, &l.ApprovalStatus, &l.StartTermID, &l.EndTermID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) PreferredUnitsByFaculty(ctx context.Context, termID forecast.TermID) (map[forecast.FacultyID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT faculty_id, preferred_units FROM preferences WHERE term_id = ?`, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[forecast.FacultyID]int)
	for rows.Next() {
		var id forecast.FacultyID
		var units int
		if err := rows.Scan(&id, &units); err != nil {
			return nil, err
		}
		out[id] = units
	}
	return out, rows.Err()
}

func (s *Store) CountSectionsInTerm(ctx context.Context, termID forecast.TermID, statuses []string) (int, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM sections
		 WHERE term_id = ? AND archived = 0 AND status IN (%s)`,
		placeholders(len(statuses)))
	args := append([]any{termID}, toAnySlice(statuses)...)

	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *Store) CountCourseSections(ctx context.Context, courseID forecast.CourseID, termID forecast.TermID, statuses []string) (int, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM sections
		 WHERE course_id = ? AND term_id = ? AND archived = 0 AND status IN (%s)`,
		placeholders(len(statuses)))
	args := append([]any{courseID, termID}, toAnySlice(statuses)...)

	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *Store) FacultyWhoTaught(ctx context.Context, courseID forecast.CourseID, termIDs []forecast.TermID) (map[forecast.FacultyID]struct{}, error) {
	out := make(map[forecast.FacultyID]struct{})
	if len(termIDs) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT a.faculty_id
		 FROM assignments a
		 JOIN sections s ON s.id = a.section_id
		 WHERE s.course_id = ? AND s.term_id IN (%s)`,
		placeholders(len(termIDs)))
	args := []any{courseID}
	for _, id := range termIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id forecast.FacultyID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (s *Store) PreEnlistment(ctx context.Context, termID forecast.TermID, courseID forecast.CourseID) (*forecast.PreEnlistment, error) {
	var pe forecast.PreEnlistment
	err := s.db.QueryRowContext(ctx,
		`SELECT term_id, course_id, seats_requested
		 FROM preenlistments WHERE term_id = ? AND course_id = ?`,
		termID, courseID).Scan(&pe.TermID, &pe.CourseID, &pe.SeatsRequested)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pe, nil
}

func (s *Store) MeanSeatCap(ctx context.Context, courseID forecast.CourseID) (*float64, error) {
	var mean sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(seat_cap) FROM sections WHERE course_id = ? AND seat_cap > 0`,
		courseID).Scan(&mean)
	if err != nil {
		return nil, err
	}
	if !mean.Valid {
		return nil, nil
	}
	return &mean.Float64, nil
}

func (s *Store) TermSectionStats(ctx context.Context, courseID forecast.CourseID, termID forecast.TermID) (forecast.SectionStats, error) {
	var stats forecast.SectionStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sections
		 WHERE course_id = ? AND term_id = ? AND archived = 0`,
		courseID, termID).Scan(&stats.Count)
	if err != nil {
		return stats, err
	}

	var mean sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT AVG(CAST(enrolled AS REAL) / seat_cap) FROM sections
		 WHERE course_id = ? AND term_id = ? AND archived = 0 AND seat_cap > 0`,
		courseID, termID).Scan(&mean)
	if err != nil {
		return stats, err
	}
	if mean.Valid {
		stats.MeanFillRate = &mean.Float64
	}
	return stats, nil
}

// =============================================================================
// SEEDER - bulk dataset replacement
// =============================================================================

// ReplaceAll swaps the whole dataset inside one transaction. Either the
// new dataset lands completely or the old one stays intact.
func (s *Store) ReplaceAll(ctx context.Context, data seedstore.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{
		"terms", "courses", "faculty", "sections",
		"assignments", "preferences", "leaves", "preenlistments",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, t := range data.Terms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO terms (id, acad_year_start, term_number, is_current) VALUES (?, ?, ?, ?)`,
			t.ID, t.AcadYearStart, t.TermNumber, boolToInt(t.IsCurrent)); err != nil {
			return err
		}
	}
	for _, c := range data.Courses {
		kacs, err := json.Marshal(emptyIfNilStrings(c.KACIDs))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, code, department_id, units_per_section, kac_ids) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Code, c.DepartmentID, c.UnitsPerSection, string(kacs)); err != nil {
			return err
		}
	}
	for _, f := range data.Faculty {
		kacs, err := json.Marshal(emptyIfNilStrings(f.QualifiedKACs))
		if err != nil {
			return err
		}
		courses, err := json.Marshal(emptyIfNilCourses(f.CourseIDsFromKACs))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO faculty (id, name, department_id, employment, qualified_kacs, course_ids_from_kacs)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.DepartmentID, string(f.Employment), string(kacs), string(courses)); err != nil {
			return err
		}
	}
	for _, sec := range data.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, term_id, course_id, status, archived, seat_cap, enrolled)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sec.ID, sec.TermID, sec.CourseID, sec.Status, boolToInt(sec.Archived), sec.SeatCap, sec.Enrolled); err != nil {
			return err
		}
	}
	for _, a := range data.Assignments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assignments (faculty_id, section_id) VALUES (?, ?)`,
			a.FacultyID, a.SectionID); err != nil {
			return err
		}
	}
	for _, p := range data.Preferences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preferences (faculty_id, term_id, preferred_units) VALUES (?, ?, ?)`,
			p.FacultyID, p.TermID, p.PreferredUnits); err != nil {
			return err
		}
	}
	for _, l := range data.Leaves {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO leaves (faculty_id, approval_status, start_term_id, end_term_id) VALUES (?, ?, ?, ?)`,
			l.FacultyID, l.ApprovalStatus, l.StartTermID, l.EndTermID); err != nil {
			return err
		}
	}
	for _, pe := range data.PreEnlistments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preenlistments (term_id, course_id, seats_requested) VALUES (?, ?, ?)`,
			pe.TermID, pe.CourseID, pe.SeatsRequested); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func placeholders(n int) string {
	if n <= 0 {
		// IN () is a syntax error; match nothing instead.
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func emptyIfNilCourses(v []forecast.CourseID) []forecast.CourseID {
	if v == nil {
		return []forecast.CourseID{}
	}
	return v
}
