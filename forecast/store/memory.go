// Package store provides Store implementations and the seeding contract.
package store

import (
	"context"
	"sync"

	"github.com/animoassign/load-engine/forecast"
)

// =============================================================================
// DATASET & SEEDER - shared by memory and SQLite implementations
// =============================================================================

// Dataset is a complete snapshot of every collection the engine reads.
// Scenario loading replaces a store's contents with one of these.
type Dataset struct {
	Terms          []forecast.Term
	Courses        []forecast.Course
	Faculty        []forecast.FacultyProfile
	Sections       []forecast.Section
	Assignments    []forecast.FacultyAssignment
	Preferences    []forecast.FacultyPreference
	Leaves         []forecast.Leave
	PreEnlistments []forecast.PreEnlistment
}

// Seeder is implemented by stores that can be bulk-loaded with a dataset.
// The engine itself never writes; seeding is a dev/demo concern.
type Seeder interface {
	ReplaceAll(ctx context.Context, data Dataset) error
}

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds a dataset in memory. Reads return records in insertion
// order, which satisfies the Store ordering contract.
type Memory struct {
	mu   sync.RWMutex
	data Dataset
}

func NewMemory() *Memory {
	return &Memory{}
}

// ReplaceAll swaps in a new dataset, copying every slice so the caller
// cannot mutate store state afterwards.
func (m *Memory) ReplaceAll(_ context.Context, data Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = Dataset{
		Terms:          append([]forecast.Term(nil), data.Terms...),
		Courses:        append([]forecast.Course(nil), data.Courses...),
		Faculty:        append([]forecast.FacultyProfile(nil), data.Faculty...),
		Sections:       append([]forecast.Section(nil), data.Sections...),
		Assignments:    append([]forecast.FacultyAssignment(nil), data.Assignments...),
		Preferences:    append([]forecast.FacultyPreference(nil), data.Preferences...),
		Leaves:         append([]forecast.Leave(nil), data.Leaves...),
		PreEnlistments: append([]forecast.PreEnlistment(nil), data.PreEnlistments...),
	}
	return nil
}

func (m *Memory) Terms(_ context.Context) ([]forecast.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]forecast.Term(nil), m.data.Terms...), nil
}

func (m *Memory) CoursesByDepartment(_ context.Context, departmentID string) ([]forecast.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []forecast.Course
	for _, c := range m.data.Courses {
		if c.DepartmentID == departmentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) FacultyByDepartment(_ context.Context, departmentID string, employment forecast.EmploymentType) ([]forecast.FacultyProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []forecast.FacultyProfile
	for _, f := range m.data.Faculty {
		if f.DepartmentID == departmentID && f.Employment == employment {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *Memory) ApprovedLeaves(_ context.Context, departmentID string) ([]forecast.Leave, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inDept := make(map[forecast.FacultyID]bool)
	for _, f := range m.data.Faculty {
		if f.DepartmentID == departmentID {
			inDept[f.ID] = true
		}
	}

	var out []forecast.Leave
	for _, l := range m.data.Leaves {
		if l.ApprovalStatus == forecast.LeaveApproved && inDept[l.FacultyID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) PreferredUnitsByFaculty(_ context.Context, termID forecast.TermID) (map[forecast.FacultyID]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[forecast.FacultyID]int)
	for _, p := range m.data.Preferences {
		if p.TermID == termID {
			out[p.FacultyID] = p.PreferredUnits
		}
	}
	return out, nil
}

func (m *Memory) CountSectionsInTerm(_ context.Context, termID forecast.TermID, statuses []string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.data.Sections {
		if s.TermID == termID && !s.Archived && statusIn(s.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountCourseSections(_ context.Context, courseID forecast.CourseID, termID forecast.TermID, statuses []string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.data.Sections {
		if s.CourseID == courseID && s.TermID == termID && !s.Archived && statusIn(s.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) FacultyWhoTaught(_ context.Context, courseID forecast.CourseID, termIDs []forecast.TermID) (map[forecast.FacultyID]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	termSet := make(map[forecast.TermID]bool, len(termIDs))
	for _, id := range termIDs {
		termSet[id] = true
	}

	matching := make(map[string]bool)
	for _, s := range m.data.Sections {
		if s.CourseID == courseID && termSet[s.TermID] {
			matching[s.ID] = true
		}
	}

	out := make(map[forecast.FacultyID]struct{})
	for _, a := range m.data.Assignments {
		if matching[a.SectionID] {
			out[a.FacultyID] = struct{}{}
		}
	}
	return out, nil
}

func (m *Memory) PreEnlistment(_ context.Context, termID forecast.TermID, courseID forecast.CourseID) (*forecast.PreEnlistment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pe := range m.data.PreEnlistments {
		if pe.TermID == termID && pe.CourseID == courseID {
			record := pe
			return &record, nil
		}
	}
	return nil, nil
}

func (m *Memory) MeanSeatCap(_ context.Context, courseID forecast.CourseID) (*float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum, n := 0, 0
	for _, s := range m.data.Sections {
		if s.CourseID == courseID && s.SeatCap > 0 {
			sum += s.SeatCap
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	mean := float64(sum) / float64(n)
	return &mean, nil
}

func (m *Memory) TermSectionStats(_ context.Context, courseID forecast.CourseID, termID forecast.TermID) (forecast.SectionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := forecast.SectionStats{}
	fillSum, fillN := 0.0, 0
	for _, s := range m.data.Sections {
		if s.CourseID != courseID || s.TermID != termID || s.Archived {
			continue
		}
		stats.Count++
		if s.SeatCap > 0 {
			fillSum += float64(s.Enrolled) / float64(s.SeatCap)
			fillN++
		}
	}
	if fillN > 0 {
		mean := fillSum / float64(fillN)
		stats.MeanFillRate = &mean
	}
	return stats, nil
}

func statusIn(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
