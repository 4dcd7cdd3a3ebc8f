/*
report.go - Risk rows and run summary

PURPOSE:
  Turns per-course allocation results into the report callers consume:
  one row per course with positive demand, a fixed-rule risk/confidence
  label, and run-level totals.

LABEL RULE:
  High/Low      demand exists and full-time coverage is zero
  Medium/Medium partial coverage (some part-time need)
  Low/High      demand fully covered by full-time faculty

SUMMARY:
  EstimatedPTHires is a deliberate 1:1 of TotalPTSections. It is a
  provisional heuristic, not a staffing formula.
*/
package forecast

import "time"

type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// CourseRiskRow is one course's staffing outlook.
type CourseRiskRow struct {
	CourseID         CourseID
	CourseCode       string
	DemandSections   int
	FTFilledSections int
	PTNeededSections int

	// FTAssignees lists assignee display names in allocation order, one
	// entry per section (a name repeats when one person took several).
	FTAssignees []string

	Risk       RiskLevel
	Confidence ConfidenceLevel
}

// Summary aggregates part-time need across the run.
type Summary struct {
	TotalPTSections  int
	EstimatedPTHires int
}

// Report is the full output of one run. It is never persisted; every run
// recomputes from scratch.
type Report struct {
	RunID        string
	DepartmentID string
	TermID       TermID
	Rows         []CourseRiskRow
	Summary      Summary
	GeneratedAt  time.Time
	Params       Params
}

// BuildRow assembles a course's row from its demand and allocation result.
func BuildRow(course Course, demand int, res AllocationResult) CourseRiskRow {
	var assignees []string
	for _, a := range res.Allocations {
		for i := 0; i < a.Sections; i++ {
			assignees = append(assignees, a.Name)
		}
	}

	risk, confidence := label(demand, res.Filled, res.PTNeeded)
	return CourseRiskRow{
		CourseID:         course.ID,
		CourseCode:       course.Code,
		DemandSections:   demand,
		FTFilledSections: res.Filled,
		PTNeededSections: res.PTNeeded,
		FTAssignees:      assignees,
		Risk:             risk,
		Confidence:       confidence,
	}
}

func label(demand, filled, ptNeeded int) (RiskLevel, ConfidenceLevel) {
	switch {
	case demand > 0 && filled == 0:
		return RiskHigh, ConfidenceLow
	case ptNeeded > 0:
		return RiskMedium, ConfidenceMedium
	default:
		return RiskLow, ConfidenceHigh
	}
}

// Summarize computes run-level totals from the rows.
func Summarize(rows []CourseRiskRow) Summary {
	total := 0
	for _, r := range rows {
		total += r.PTNeededSections
	}
	return Summary{
		TotalPTSections:  total,
		EstimatedPTHires: total,
	}
}
