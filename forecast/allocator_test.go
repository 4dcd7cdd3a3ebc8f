package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/animoassign/load-engine/forecast"
)

func poolsOf(history, kac, fallback []forecast.FacultyProfile) forecast.Pools {
	return forecast.Pools{History: history, KAC: kac, DeptFallback: fallback}
}

// =============================================================================
// ROUND-ROBIN BEHAVIOR
// =============================================================================

func TestAllocate_RoundRobinWithinPool(t *testing.T) {
	// GIVEN: two history-pool faculty with capacities 6 and 3, demand 4,
	//        3 units per section
	// THEN: pass 1 gives one section each, pass 2 gives the remaining
	//       section to F1; F2 is out of units. One section goes unmet.

	ledger := forecast.Ledger{"F1": 6, "F2": 3}
	pools := poolsOf(
		[]forecast.FacultyProfile{ftFaculty("F1", "Alice"), ftFaculty("F2", "Ben")},
		nil, nil,
	)

	res := forecast.Allocate(4, ledger, pools, 3)

	assert.Equal(t, []forecast.Allocation{
		{FacultyID: "F1", Name: "Alice", Sections: 2},
		{FacultyID: "F2", Name: "Ben", Sections: 1},
	}, res.Allocations)
	assert.Equal(t, 3, res.Filled)
	assert.Equal(t, 1, res.PTNeeded)
	assert.Equal(t, 0, ledger.Remaining("F1"))
	assert.Equal(t, 0, ledger.Remaining("F2"))
}

func TestAllocate_PoolPriorityOrder(t *testing.T) {
	// History drains before KAC, KAC before fallback.
	ledger := forecast.Ledger{"H1": 3, "K1": 3, "D1": 3}
	pools := poolsOf(
		[]forecast.FacultyProfile{ftFaculty("H1", "Hist")},
		[]forecast.FacultyProfile{ftFaculty("K1", "Kac")},
		[]forecast.FacultyProfile{ftFaculty("D1", "Dept")},
	)

	res := forecast.Allocate(2, ledger, pools, 3)

	assert.Equal(t, []forecast.Allocation{
		{FacultyID: "H1", Name: "Hist", Sections: 1},
		{FacultyID: "K1", Name: "Kac", Sections: 1},
	}, res.Allocations)
	assert.Equal(t, 3, ledger.Remaining("D1"), "fallback pool untouched while demand is met upstream")
}

func TestAllocate_SkipsFacultyBelowUnitCost(t *testing.T) {
	ledger := forecast.Ledger{"F1": 2, "F2": 3}
	pools := poolsOf([]forecast.FacultyProfile{ftFaculty("F1", "Alice"), ftFaculty("F2", "Ben")}, nil, nil)

	res := forecast.Allocate(1, ledger, pools, 3)

	assert.Equal(t, []forecast.Allocation{{FacultyID: "F2", Name: "Ben", Sections: 1}}, res.Allocations)
	assert.Equal(t, 2, ledger.Remaining("F1"), "partial units are never spent")
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestAllocate_Conservation(t *testing.T) {
	tests := []struct {
		name   string
		demand int
		ledger forecast.Ledger
	}{
		{"capacity exceeds demand", 2, forecast.Ledger{"F1": 30}},
		{"capacity matches demand", 3, forecast.Ledger{"F1": 9}},
		{"capacity short", 10, forecast.Ledger{"F1": 6, "F2": 3}},
		{"no capacity", 5, forecast.Ledger{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools := poolsOf([]forecast.FacultyProfile{ftFaculty("F1", "Alice"), ftFaculty("F2", "Ben")}, nil, nil)

			res := forecast.Allocate(tt.demand, tt.ledger, pools, 3)

			assert.Equal(t, tt.demand, res.Filled+res.PTNeeded,
				"every unit of demand accounted for exactly once")
			assert.GreaterOrEqual(t, res.PTNeeded, 0)
		})
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	// Two runs with identical inputs produce identical outputs.
	build := func() (forecast.Ledger, forecast.Pools) {
		return forecast.Ledger{"F1": 6, "F2": 6, "F3": 3},
			poolsOf(
				[]forecast.FacultyProfile{ftFaculty("F1", "Alice")},
				[]forecast.FacultyProfile{ftFaculty("F2", "Ben")},
				[]forecast.FacultyProfile{ftFaculty("F3", "Carla")},
			)
	}

	l1, p1 := build()
	l2, p2 := build()
	first := forecast.Allocate(5, l1, p1, 3)
	second := forecast.Allocate(5, l2, p2, 3)

	assert.Equal(t, first, second)
	assert.Equal(t, l1, l2)
}

func TestAllocate_NoProgressValve(t *testing.T) {
	// GIVEN: ledger balances that can never cover one section
	// THEN: the loop stops instead of spinning; all demand is unmet
	ledger := forecast.Ledger{"F1": 2, "F2": 1}
	pools := poolsOf([]forecast.FacultyProfile{ftFaculty("F1", "Alice"), ftFaculty("F2", "Ben")}, nil, nil)

	res := forecast.Allocate(3, ledger, pools, 3)

	assert.Empty(t, res.Allocations)
	assert.Equal(t, 0, res.Filled)
	assert.Equal(t, 3, res.PTNeeded)
}

func TestAllocate_ZeroDemand(t *testing.T) {
	res := forecast.Allocate(0, forecast.Ledger{"F1": 6}, poolsOf([]forecast.FacultyProfile{ftFaculty("F1", "Alice")}, nil, nil), 3)

	assert.Empty(t, res.Allocations)
	assert.Equal(t, 0, res.PTNeeded)
}

func TestAllocate_InvalidUnitCost(t *testing.T) {
	res := forecast.Allocate(4, forecast.Ledger{"F1": 6}, poolsOf([]forecast.FacultyProfile{ftFaculty("F1", "Alice")}, nil, nil), 0)

	assert.Equal(t, 0, res.Filled)
	assert.Equal(t, 4, res.PTNeeded)
}
