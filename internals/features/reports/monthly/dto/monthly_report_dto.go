// file: internals/features/reports/monthly/dto/monthly_report_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "agentposition_backend/internals/features/reports/monthly/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Generate (JSON). A nil agent_id regenerates the month for every active
// agent.
type GenerateMonthlyReportRequest struct {
	AgentID *uuid.UUID `json:"agent_id" validate:"omitempty"`
	Month   string     `json:"month" validate:"required,len=7"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type MonthlyReportResponse struct {
	MonthlyReportID uuid.UUID `json:"monthly_report_id"`
	AgentID         uuid.UUID `json:"agent_id"`
	Month           string    `json:"month"`

	ExpectedDays  int `json:"expected_days"`
	PresentDays   int `json:"present_days"`
	AbsentDays    int `json:"absent_days"`
	ToleranceDays int `json:"tolerance_days"`
	VarianceDays  int `json:"variance_days"`

	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func FromMonthlyReportModel(mdl m.MonthlyReportModel) MonthlyReportResponse {
	return MonthlyReportResponse{
		MonthlyReportID: mdl.MonthlyReportID,
		AgentID:         mdl.MonthlyReportAgentID,
		Month:           mdl.MonthlyReportMonth,
		ExpectedDays:    mdl.MonthlyReportExpectedDays,
		PresentDays:     mdl.MonthlyReportPresentDays,
		AbsentDays:      mdl.MonthlyReportAbsentDays,
		ToleranceDays:   mdl.MonthlyReportToleranceDays,
		VarianceDays:    mdl.MonthlyReportExpectedDays - mdl.MonthlyReportPresentDays,
		Status:          mdl.MonthlyReportStatus,
		GeneratedAt:     mdl.MonthlyReportGeneratedAt,
	}
}

func FromMonthlyReportModels(mdls []m.MonthlyReportModel) []MonthlyReportResponse {
	out := make([]MonthlyReportResponse, 0, len(mdls))
	for _, mdl := range mdls {
		out = append(out, FromMonthlyReportModel(mdl))
	}
	return out
}
