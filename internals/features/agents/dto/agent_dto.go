// file: internals/features/agents/dto/agent_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"agentposition_backend/internals/configs"
	m "agentposition_backend/internals/features/agents/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Create (JSON) — admin creates the agent identity; the reference point
// stays unconfigured until set explicitly or bootstrapped by the first
// check-in.
type CreateAgentRequest struct {
	FullName string  `json:"full_name" validate:"required,min=3,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	// Role membership is checked against constants.AllRoles in the controller.
	Role *string `json:"role" validate:"omitempty,max=20"`

	Departement    *string `json:"departement" validate:"omitempty,max=80"`
	Commune        *string `json:"commune" validate:"omitempty,max=80"`
	Arrondissement *string `json:"arrondissement" validate:"omitempty,max=80"`
	Village        *string `json:"village" validate:"omitempty,max=120"`
	ProjectName    *string `json:"project_name" validate:"omitempty,max=120"`

	ToleranceRadiusM     *float64 `json:"tolerance_radius_m" validate:"omitempty,gt=0"`
	ExpectedDaysPerMonth *int     `json:"expected_days_per_month" validate:"omitempty,min=1,max=31"`
}

// Admin override of the reference point (and optionally the radius).
type SetReferencePointRequest struct {
	Lat              *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng              *float64 `json:"lng" validate:"required,min=-180,max=180"`
	ToleranceRadiusM *float64 `json:"tolerance_radius_m" validate:"omitempty,gt=0"`
}

// Update (partial JSON) of the presence settings.
type UpdateAgentSettingsRequest struct {
	ToleranceRadiusM     *float64 `json:"tolerance_radius_m" validate:"omitempty,gt=0"`
	ExpectedDaysPerMonth *int     `json:"expected_days_per_month" validate:"omitempty,min=1,max=31"`
	IsActive             *bool    `json:"is_active" validate:"omitempty"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type AgentResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Phone    *string   `json:"phone,omitempty"`
	Role     string    `json:"role"`

	Departement    *string `json:"departement,omitempty"`
	Commune        *string `json:"commune,omitempty"`
	Arrondissement *string `json:"arrondissement,omitempty"`
	Village        *string `json:"village,omitempty"`
	ProjectName    *string `json:"project_name,omitempty"`

	ReferenceLat         *float64 `json:"reference_lat,omitempty"`
	ReferenceLng         *float64 `json:"reference_lng,omitempty"`
	ReferenceConfigured  bool     `json:"reference_configured"`
	ToleranceRadiusM     float64  `json:"tolerance_radius_m"`
	ExpectedDaysPerMonth int      `json:"expected_days_per_month"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateAgentRequest) ToModel() m.AgentModel {
	role := "agent"
	if r.Role != nil && *r.Role != "" {
		role = *r.Role
	}
	tol := configs.DefaultToleranceRadiusM
	if r.ToleranceRadiusM != nil {
		tol = *r.ToleranceRadiusM
	}
	days := configs.DefaultExpectedDaysPerMonth
	if r.ExpectedDaysPerMonth != nil {
		days = *r.ExpectedDaysPerMonth
	}
	return m.AgentModel{
		ID:                   uuid.New(),
		FullName:             r.FullName,
		Email:                r.Email,
		Phone:                r.Phone,
		Role:                 role,
		Departement:          r.Departement,
		Commune:              r.Commune,
		Arrondissement:       r.Arrondissement,
		Village:              r.Village,
		ProjectName:          r.ProjectName,
		ToleranceRadiusM:     tol,
		ExpectedDaysPerMonth: days,
		IsActive:             true,
	}
}

func FromAgentModel(mdl m.AgentModel) AgentResponse {
	return AgentResponse{
		ID:                   mdl.ID,
		FullName:             mdl.FullName,
		Email:                mdl.Email,
		Phone:                mdl.Phone,
		Role:                 mdl.Role,
		Departement:          mdl.Departement,
		Commune:              mdl.Commune,
		Arrondissement:       mdl.Arrondissement,
		Village:              mdl.Village,
		ProjectName:          mdl.ProjectName,
		ReferenceLat:         mdl.ReferenceLat,
		ReferenceLng:         mdl.ReferenceLng,
		ReferenceConfigured:  mdl.HasReferencePoint(),
		ToleranceRadiusM:     mdl.ToleranceRadiusM,
		ExpectedDaysPerMonth: mdl.ExpectedDaysPerMonth,
		IsActive:             mdl.IsActive,
		CreatedAt:            mdl.CreatedAt,
		UpdatedAt:            mdl.UpdatedAt,
	}
}

func FromAgentModels(mdls []m.AgentModel) []AgentResponse {
	out := make([]AgentResponse, 0, len(mdls))
	for _, mdl := range mdls {
		out = append(out, FromAgentModel(mdl))
	}
	return out
}
