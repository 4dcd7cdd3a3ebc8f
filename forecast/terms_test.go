package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animoassign/load-engine/forecast"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// fourTerms returns AY2023 T1..T3 plus AY2024 T1, with AY2024 T1 current.
// Deliberately shuffled so the sequencer has to sort.
func fourTerms() []forecast.Term {
	return []forecast.Term{
		{ID: "AY23T3", AcadYearStart: 2023, TermNumber: 3},
		{ID: "AY24T1", AcadYearStart: 2024, TermNumber: 1, IsCurrent: true},
		{ID: "AY23T1", AcadYearStart: 2023, TermNumber: 1},
		{ID: "AY23T2", AcadYearStart: 2023, TermNumber: 2},
	}
}

// =============================================================================
// ORDERING
// =============================================================================

func TestTermSequencer_Ordered_SortsByYearThenNumber(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	var ids []forecast.TermID
	for _, term := range seq.Ordered() {
		ids = append(ids, term.ID)
	}
	assert.Equal(t, []forecast.TermID{"AY23T1", "AY23T2", "AY23T3", "AY24T1"}, ids)
}

func TestTermSequencer_Current(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	current := seq.Current()
	require.NotNil(t, current)
	assert.Equal(t, forecast.TermID("AY24T1"), current.ID)
}

func TestTermSequencer_Current_NoneFlagged(t *testing.T) {
	terms := fourTerms()
	for i := range terms {
		terms[i].IsCurrent = false
	}
	seq := forecast.NewTermSequencer(terms)

	assert.Nil(t, seq.Current())
}

// =============================================================================
// LOOKBACK
// =============================================================================

func TestTermSequencer_Before_NewestFirst(t *testing.T) {
	// GIVEN: A < B < C in term order
	// THEN: the two terms before C come back newest-first: [B, A]
	seq := forecast.NewTermSequencer(fourTerms())

	assert.Equal(t, []forecast.TermID{"AY23T3", "AY23T2"}, seq.Before("AY24T1", 2))
}

func TestTermSequencer_Before_HistoryExhausted(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	// Only one term precedes AY23T2, even when asking for five.
	assert.Equal(t, []forecast.TermID{"AY23T1"}, seq.Before("AY23T2", 5))
	assert.Empty(t, seq.Before("AY23T1", 3))
}

func TestTermSequencer_Before_UnknownOrNonPositive(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	assert.Empty(t, seq.Before("nope", 2))
	assert.Empty(t, seq.Before("AY24T1", 0))
	assert.Empty(t, seq.Before("AY24T1", -1))
}

// =============================================================================
// RANGE CONTAINMENT
// =============================================================================

func TestTermSequencer_InRange(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	tests := []struct {
		name                string
		term, start, end    forecast.TermID
		want                bool
	}{
		{"middle of range", "AY23T2", "AY23T1", "AY23T3", true},
		{"inclusive start", "AY23T1", "AY23T1", "AY23T3", true},
		{"inclusive end", "AY23T3", "AY23T1", "AY23T3", true},
		{"before range", "AY23T1", "AY23T2", "AY24T1", false},
		{"after range", "AY24T1", "AY23T1", "AY23T3", false},
		{"inverted range is empty", "AY23T2", "AY23T3", "AY23T1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seq.InRange(tt.term, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTermSequencer_InRange_UnknownTerm(t *testing.T) {
	seq := forecast.NewTermSequencer(fourTerms())

	_, err := seq.InRange("ghost", "AY23T1", "AY23T3")
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrUnknownTerm)

	var unknown *forecast.UnknownTermError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, forecast.TermID("ghost"), unknown.TermID)
}
