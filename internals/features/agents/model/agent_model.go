package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentModel represents the users table. An agent is a user account
// enriched with its presence configuration: the reference point its
// check-ins are validated against, the tolerance radius and the number
// of working days expected per month.
type AgentModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:120;not null" json:"full_name"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone    *string   `gorm:"size:30" json:"phone,omitempty"`
	Role     string    `gorm:"type:varchar(20);not null;default:'agent'" json:"role"`

	// Hiérarchie géographique (Bénin) utilisée par les exports mensuels.
	Departement    *string `gorm:"size:80" json:"departement,omitempty"`
	Commune        *string `gorm:"size:80" json:"commune,omitempty"`
	Arrondissement *string `gorm:"size:80" json:"arrondissement,omitempty"`
	Village        *string `gorm:"size:120" json:"village,omitempty"`
	ProjectName    *string `gorm:"size:120" json:"project_name,omitempty"`

	// Reference point. Both stay NULL until the agent is configured,
	// either explicitly by an admin or by the first check-in bootstrap.
	ReferenceLat *float64 `gorm:"column:reference_lat" json:"reference_lat,omitempty"`
	ReferenceLng *float64 `gorm:"column:reference_lng" json:"reference_lng,omitempty"`

	ToleranceRadiusM     float64 `gorm:"not null;default:100" json:"tolerance_radius_m"`
	ExpectedDaysPerMonth int     `gorm:"not null;default:22" json:"expected_days_per_month"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AgentModel) TableName() string { return "users" }

// HasReferencePoint reports whether the agent left the Unconfigured state.
func (a AgentModel) HasReferencePoint() bool {
	return a.ReferenceLat != nil && a.ReferenceLng != nil
}
