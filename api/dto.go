/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Terms:
    TermDTO

  Reports:
    ReportDTO, CourseRiskRowDTO, SummaryDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - forecast/report.go: Domain report types
*/
package api

import (
	"time"

	"github.com/animoassign/load-engine/forecast"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// TermDTO represents an academic term in API responses.
type TermDTO struct {
	ID            string `json:"id"`
	AcadYearStart int    `json:"acad_year_start"`
	TermNumber    int    `json:"term_number"`
	IsCurrent     bool   `json:"is_current"`
}

// CourseRiskRowDTO is one course line of the risk report.
type CourseRiskRowDTO struct {
	CourseID         string   `json:"course_id"`
	CourseCode       string   `json:"course_code"`
	DemandSections   int      `json:"demand_sections"`
	FTFilledSections int      `json:"ft_filled_sections"`
	PTNeededSections int      `json:"pt_needed_sections"`
	FTAssignees      []string `json:"ft_assignees"`
	Risk             string   `json:"risk"`
	Confidence       string   `json:"confidence"`
}

// SummaryDTO aggregates part-time need across the report.
type SummaryDTO struct {
	TotalPTSections  int `json:"total_pt_sections"`
	EstimatedPTHires int `json:"estimated_pt_hires"`
}

// ReportDTO is the full department risk report.
type ReportDTO struct {
	RunID        string             `json:"run_id"`
	DepartmentID string             `json:"department_id"`
	TermID       string             `json:"term_id"`
	Rows         []CourseRiskRowDTO `json:"rows"`
	Summary      SummaryDTO         `json:"summary"`
	GeneratedAt  string             `json:"generated_at"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// LoadScenarioRequest is the request to load a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toTermDTO(t forecast.Term) TermDTO {
	return TermDTO{
		ID:            string(t.ID),
		AcadYearStart: t.AcadYearStart,
		TermNumber:    t.TermNumber,
		IsCurrent:     t.IsCurrent,
	}
}

func toReportDTO(rep *forecast.Report) ReportDTO {
	rows := make([]CourseRiskRowDTO, len(rep.Rows))
	for i, row := range rep.Rows {
		assignees := row.FTAssignees
		if assignees == nil {
			assignees = []string{}
		}
		rows[i] = CourseRiskRowDTO{
			CourseID:         string(row.CourseID),
			CourseCode:       row.CourseCode,
			DemandSections:   row.DemandSections,
			FTFilledSections: row.FTFilledSections,
			PTNeededSections: row.PTNeededSections,
			FTAssignees:      assignees,
			Risk:             string(row.Risk),
			Confidence:       string(row.Confidence),
		}
	}
	return ReportDTO{
		RunID:        rep.RunID,
		DepartmentID: rep.DepartmentID,
		TermID:       string(rep.TermID),
		Rows:         rows,
		Summary: SummaryDTO{
			TotalPTSections:  rep.Summary.TotalPTSections,
			EstimatedPTHires: rep.Summary.EstimatedPTHires,
		},
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
	}
}
