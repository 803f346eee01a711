package types

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the qualitative bucket derived from a 0-100 risk percentage.
type RiskLevel string

const (
	RiskRendah       RiskLevel = "rendah"
	RiskSedang       RiskLevel = "sedang"
	RiskTinggi       RiskLevel = "tinggi"
	RiskSangatTinggi RiskLevel = "sangat_tinggi"
)

// FocusArea is the health category a user should currently see more content about.
type FocusArea string

const (
	FocusDiabetes    FocusArea = "diabetes"
	FocusCholesterol FocusArea = "cholesterol"
	FocusBalanced    FocusArea = "balanced"
)

// LabMeasurement holds one optional value per analyte. A nil field means the
// analyte was not measured; it is never coerced to zero. Units are mg/dL,
// except HbA1c which is a percentage.
type LabMeasurement struct {
	GlucoseFasting   *float64 `json:"glucose_fasting,omitempty"`
	HbA1c            *float64 `json:"hba1c,omitempty"`
	CholesterolTotal *float64 `json:"cholesterol_total,omitempty"`
	LDL              *float64 `json:"ldl,omitempty"`
	HDL              *float64 `json:"hdl,omitempty"`
	Triglycerides    *float64 `json:"triglycerides,omitempty"`
}

// IsEmpty reports whether no analyte was measured at all.
func (m LabMeasurement) IsEmpty() bool {
	return m.GlucoseFasting == nil && m.HbA1c == nil && m.CholesterolTotal == nil &&
		m.LDL == nil && m.HDL == nil && m.Triglycerides == nil
}

// RiskCategoryResult is the derived per-category risk summary. It is always
// recomputed from the parent lab snapshot, never persisted on its own.
type RiskCategoryResult struct {
	Percentage  int       `json:"percentage"`
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
}

// LabResult is the persisted lab snapshot. The store keeps at most one active
// snapshot per user: saving a new result upserts into the most recent row.
type LabResult struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                    string    `gorm:"index" json:"user_id"`
	GlucoseFasting            *float64  `json:"glucose_fasting,omitempty"`
	HbA1c                     *float64  `json:"hba1c,omitempty"`
	CholesterolTotal          *float64  `json:"cholesterol_total,omitempty"`
	LDL                       *float64  `json:"ldl,omitempty"`
	HDL                       *float64  `json:"hdl,omitempty"`
	Triglycerides             *float64  `json:"triglycerides,omitempty"`
	RiskLevel                 RiskLevel `json:"risk_level"`
	RiskScore                 int       `json:"risk_score"`
	DiabetesRiskPercentage    int       `json:"diabetes_risk_percentage"`
	CholesterolRiskPercentage int       `json:"cholesterol_risk_percentage"`
	ImageURL                  string    `json:"image_url,omitempty"`
	RawOCRText                string    `gorm:"type:text" json:"raw_ocr_text,omitempty"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// TableName sets the gorm table name.
func (LabResult) TableName() string { return "lab_results" }

// Measurement assembles the analyte fields back into a LabMeasurement.
func (r *LabResult) Measurement() LabMeasurement {
	return LabMeasurement{
		GlucoseFasting:   r.GlucoseFasting,
		HbA1c:            r.HbA1c,
		CholesterolTotal: r.CholesterolTotal,
		LDL:              r.LDL,
		HDL:              r.HDL,
		Triglycerides:    r.Triglycerides,
	}
}

// SetMeasurement copies the analyte fields of m onto the snapshot.
func (r *LabResult) SetMeasurement(m LabMeasurement) {
	r.GlucoseFasting = m.GlucoseFasting
	r.HbA1c = m.HbA1c
	r.CholesterolTotal = m.CholesterolTotal
	r.LDL = m.LDL
	r.HDL = m.HDL
	r.Triglycerides = m.Triglycerides
}

// HealthPriority is the ephemeral focus decision computed from the latest
// lab snapshot. Scores are 0-1.
type HealthPriority struct {
	Focus            FocusArea `json:"focus"`
	DiabetesScore    float64   `json:"diabetes_score"`
	CholesterolScore float64   `json:"cholesterol_score"`
	Reason           string    `json:"reason"`
}
