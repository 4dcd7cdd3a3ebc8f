package forecast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animoassign/load-engine/forecast"
	memstore "github.com/animoassign/load-engine/forecast/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func progCourse() forecast.Course {
	return forecast.Course{ID: "CCPROG1", Code: "CCPROG1", DepartmentID: "CS", UnitsPerSection: 3, KACIDs: []string{"K-PROG"}}
}

// historyStore seeds a store where F1 taught CCPROG1 one term back.
func historyStore(t *testing.T) *memstore.Memory {
	t.Helper()
	m := memstore.NewMemory()
	err := m.ReplaceAll(context.Background(), memstore.Dataset{
		Terms: fourTerms(),
		Sections: []forecast.Section{
			{ID: "S-hist", TermID: "AY23T3", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 38},
		},
		Assignments: []forecast.FacultyAssignment{{FacultyID: "F1", SectionID: "S-hist"}},
	})
	require.NoError(t, err)
	return m
}

func historyWindow() []forecast.TermID {
	return []forecast.TermID{"AY23T3", "AY23T2", "AY23T1"}
}

// =============================================================================
// POOL ASSIGNMENT
// =============================================================================

func TestClassifier_ThreePoolPriorities(t *testing.T) {
	// GIVEN: F1 taught the course, F2 is tag-qualified, F3 is
	//        course-list-qualified, F4 is department only
	// THEN: F1 -> history, F2/F3 -> KAC, F4 -> fallback

	f1 := ftFaculty("F1", "Alice")
	f2 := ftFaculty("F2", "Ben")
	f2.QualifiedKACs = []string{"K-PROG"}
	f3 := ftFaculty("F3", "Carla")
	f3.CourseIDsFromKACs = []forecast.CourseID{"CCPROG1"}
	f4 := ftFaculty("F4", "Dan")

	c := &forecast.Classifier{
		Roster:       []forecast.FacultyProfile{f1, f2, f3, f4},
		HistoryTerms: historyWindow(),
	}

	pools, err := c.Classify(context.Background(), historyStore(t), progCourse())
	require.NoError(t, err)

	assert.Equal(t, []forecast.FacultyID{"F1"}, facultyIDs(pools.History))
	assert.Equal(t, []forecast.FacultyID{"F2", "F3"}, facultyIDs(pools.KAC))
	assert.Equal(t, []forecast.FacultyID{"F4"}, facultyIDs(pools.DeptFallback))
}

func TestClassifier_HistoryBeatsKAC(t *testing.T) {
	// A KAC-qualified member who also taught the course lands in history only.
	f1 := ftFaculty("F1", "Alice")
	f1.QualifiedKACs = []string{"K-PROG"}

	c := &forecast.Classifier{
		Roster:       []forecast.FacultyProfile{f1},
		HistoryTerms: historyWindow(),
	}

	pools, err := c.Classify(context.Background(), historyStore(t), progCourse())
	require.NoError(t, err)

	assert.Equal(t, []forecast.FacultyID{"F1"}, facultyIDs(pools.History))
	assert.Empty(t, pools.KAC)
}

func TestClassifier_PoolsArePartition(t *testing.T) {
	f1 := ftFaculty("F1", "Alice")
	f2 := ftFaculty("F2", "Ben")
	f2.QualifiedKACs = []string{"K-PROG"}
	f3 := ftFaculty("F3", "Carla")
	partTimer := forecast.FacultyProfile{ID: "F9", Name: "Pat", DepartmentID: "CS", Employment: forecast.EmploymentPartTime}

	c := &forecast.Classifier{
		Roster:       []forecast.FacultyProfile{f1, f2, f3, partTimer},
		OnLeave:      map[forecast.FacultyID]bool{"F3": true},
		HistoryTerms: historyWindow(),
	}

	pools, err := c.Classify(context.Background(), historyStore(t), progCourse())
	require.NoError(t, err)

	seen := map[forecast.FacultyID]int{}
	for _, f := range pools.All() {
		seen[f.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "faculty %s appears in more than one pool", id)
	}
	assert.NotContains(t, seen, forecast.FacultyID("F3"), "on-leave faculty excluded")
	assert.NotContains(t, seen, forecast.FacultyID("F9"), "part-time faculty excluded")
}

func TestClassifier_PreferenceRecordFilter(t *testing.T) {
	// GIVEN: RequirePreference is on and only F1 filed a record
	// THEN: F2 appears in no pool at all
	f1 := ftFaculty("F1", "Alice")
	f2 := ftFaculty("F2", "Ben")

	c := &forecast.Classifier{
		Roster:            []forecast.FacultyProfile{f1, f2},
		Preferences:       map[forecast.FacultyID]int{"F1": 6},
		RequirePreference: true,
		HistoryTerms:      historyWindow(),
	}

	pools, err := c.Classify(context.Background(), historyStore(t), progCourse())
	require.NoError(t, err)

	assert.Equal(t, []forecast.FacultyID{"F1"}, facultyIDs(pools.All()))
}

func TestClassifier_EmptyPoolsAreValid(t *testing.T) {
	c := &forecast.Classifier{HistoryTerms: historyWindow()}

	pools, err := c.Classify(context.Background(), historyStore(t), progCourse())
	require.NoError(t, err)
	assert.Empty(t, pools.All())
}

// =============================================================================
// LEAVE SET
// =============================================================================

func TestOnLeaveSet_ApprovedAndInRange(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())
	leaves := []forecast.Leave{
		{FacultyID: "F1", ApprovalStatus: forecast.LeaveApproved, StartTermID: "AY23T3", EndTermID: "AY24T1"},
		{FacultyID: "F2", ApprovalStatus: "pending", StartTermID: "AY23T3", EndTermID: "AY24T1"},
		{FacultyID: "F3", ApprovalStatus: forecast.LeaveApproved, StartTermID: "AY23T1", EndTermID: "AY23T2"},
	}

	onLeave := forecast.OnLeaveSet(seq, leaves, "AY24T1")

	assert.True(t, onLeave["F1"])
	assert.False(t, onLeave["F2"], "unapproved leave does not exclude")
	assert.False(t, onLeave["F3"], "expired leave does not exclude")
}

func TestOnLeaveSet_UnknownTermFailsClosed(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())
	leaves := []forecast.Leave{
		{FacultyID: "F1", ApprovalStatus: forecast.LeaveApproved, StartTermID: "ghost", EndTermID: "AY24T1"},
	}

	onLeave := forecast.OnLeaveSet(seq, leaves, "AY24T1")

	assert.False(t, onLeave["F1"], "leave with unknown term must not exclude anyone")
}

func facultyIDs(profiles []forecast.FacultyProfile) []forecast.FacultyID {
	var ids []forecast.FacultyID
	for _, f := range profiles {
		ids = append(ids, f.ID)
	}
	return ids
}
