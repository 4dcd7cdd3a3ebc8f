/*
run.go - Pipeline orchestration

PURPOSE:
  One call, one report. The run walks a fixed sequence:

    resolve current term
    -> guard that the term has published sections (unless fallback is on)
    -> resolve the preference term (the immediately preceding term)
    -> build the capacity ledger
    -> per course, in store order: estimate demand, classify pools,
       allocate, build a row
    -> summarize

  Any failure aborts the whole run; there are no partial reports.

COURSE ORDER:
  The ledger is shared across courses, so a course earlier in store order
  competes for capacity first. That ordering is a documented contract of
  the Store, not an accident, and it is what makes runs reproducible.

SEE ALSO:
  - store.go: the ordering contract
  - errors.go: the abort conditions
*/
package forecast

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Params configures one run. The zero value of every optional field means
// "use the default"; DepartmentScope is required.
type Params struct {
	// DepartmentScope is the department all pools and demand are scoped to.
	DepartmentScope string

	// OverloadAllowanceUnits is added to every faculty member's preferred
	// units when building capacity. Default 0.
	OverloadAllowanceUnits int

	// HistoryTermsForExperience is the lookback window for the history
	// pool. Default 3.
	HistoryTermsForExperience int

	// UnitsDefaultPerSection is the unit cost of a section when the course
	// catalog does not specify one. Default 3.
	UnitsDefaultPerSection int

	// IncludeOnlyWithPreferences excludes faculty without a preference
	// record for the preference term from every pool. Default false.
	IncludeOnlyWithPreferences bool

	// AllowedSectionStatus lists the statuses counted as published.
	// Default ["active", "planned"].
	AllowedSectionStatus []string

	// AllowFallbackWithoutSections gates both the publication guard and
	// the estimator's fallback tiers. Default false.
	AllowFallbackWithoutSections bool
}

func (p Params) withDefaults() Params {
	if p.HistoryTermsForExperience <= 0 {
		p.HistoryTermsForExperience = 3
	}
	if p.UnitsDefaultPerSection <= 0 {
		p.UnitsDefaultPerSection = 3
	}
	if len(p.AllowedSectionStatus) == 0 {
		p.AllowedSectionStatus = []string{SectionStatusActive, SectionStatusPlanned}
	}
	return p
}

// Run executes the full pipeline against the store and returns the report.
func Run(ctx context.Context, store Store, params Params) (*Report, error) {
	params = params.withDefaults()
	if strings.TrimSpace(params.DepartmentScope) == "" {
		return nil, ErrDepartmentRequired
	}

	terms, err := store.Terms(ctx)
	if err != nil {
		return nil, err
	}
	seq := NewTermSequencer(terms)

	current := seq.Current()
	if current == nil {
		return nil, ErrNoCurrentTerm
	}

	published, err := store.CountSectionsInTerm(ctx, current.ID, params.AllowedSectionStatus)
	if err != nil {
		return nil, err
	}
	if published == 0 && !params.AllowFallbackWithoutSections {
		return nil, &SectionsNotPublishedError{TermID: current.ID, Statuses: params.AllowedSectionStatus}
	}

	preceding := seq.Before(current.ID, 1)
	if len(preceding) == 0 {
		return nil, ErrNoPrecedingTerm
	}
	preferenceTerm := preceding[0]

	roster, err := store.FacultyByDepartment(ctx, params.DepartmentScope, EmploymentFullTime)
	if err != nil {
		return nil, err
	}
	leaves, err := store.ApprovedLeaves(ctx, params.DepartmentScope)
	if err != nil {
		return nil, err
	}
	prefs, err := store.PreferredUnitsByFaculty(ctx, preferenceTerm)
	if err != nil {
		return nil, err
	}

	onLeave := OnLeaveSet(seq, leaves, current.ID)
	ledger := BuildCapacity(roster, onLeave, prefs, params.OverloadAllowanceUnits)

	classifier := &Classifier{
		Roster:            roster,
		OnLeave:           onLeave,
		Preferences:       prefs,
		RequirePreference: params.IncludeOnlyWithPreferences,
		HistoryTerms:      seq.Before(current.ID, params.HistoryTermsForExperience),
	}
	estimator := &DemandEstimator{
		Store:           store,
		Seq:             seq,
		AllowedStatuses: params.AllowedSectionStatus,
		AllowFallback:   params.AllowFallbackWithoutSections,
	}

	courses, err := store.CoursesByDepartment(ctx, params.DepartmentScope)
	if err != nil {
		return nil, err
	}

	var rows []CourseRiskRow
	for _, course := range courses {
		demand, err := estimator.Estimate(ctx, course.ID, current.ID)
		if err != nil {
			return nil, err
		}
		if demand == 0 {
			continue
		}

		pools, err := classifier.Classify(ctx, store, course)
		if err != nil {
			return nil, err
		}

		units := course.UnitsPerSection
		if units <= 0 {
			units = params.UnitsDefaultPerSection
		}

		res := Allocate(demand, ledger, pools, units)
		rows = append(rows, BuildRow(course, demand, res))
	}

	return &Report{
		RunID:        uuid.NewString(),
		DepartmentID: params.DepartmentScope,
		TermID:       current.ID,
		Rows:         rows,
		Summary:      Summarize(rows),
		GeneratedAt:  time.Now().UTC(),
		Params:       params,
	}, nil
}
