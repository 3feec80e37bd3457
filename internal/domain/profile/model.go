package profile

import (
	"time"

	"github.com/google/uuid"
)

// Condition is one entry in the medical history, stored as jsonb.
type Condition struct {
	Condition     string     `json:"condition"`
	DiagnosedDate *time.Time `json:"diagnosed_date,omitempty"`
	Status        string     `json:"status,omitempty"` // active, resolved, chronic, in-treatment
	Severity      string     `json:"severity,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type Allergy struct {
	Allergen      string     `json:"allergen"`
	Severity      string     `json:"severity"` // mild, moderate, severe, life-threatening
	Reaction      string     `json:"reaction,omitempty"`
	DiagnosedDate *time.Time `json:"diagnosed_date,omitempty"`
	IsActive      bool       `json:"is_active"`
}

type FamilyCondition struct {
	Relationship   string   `json:"relationship"`
	Conditions     []string `json:"conditions"`
	AgeAtDiagnosis *int     `json:"age_at_diagnosis,omitempty"`
}

type Immunization struct {
	Vaccine          string     `json:"vaccine"`
	DateAdministered *time.Time `json:"date_administered,omitempty"`
	NextDueDate      *time.Time `json:"next_due_date,omitempty"`
	AdministeredBy   string     `json:"administered_by,omitempty"`
}

type HealthGoal struct {
	Goal       string     `json:"goal"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	Status     string     `json:"status,omitempty"` // not-started, in-progress, achieved, paused, cancelled
	Progress   int        `json:"progress"`         // 0-100
	Notes      string     `json:"notes,omitempty"`
}

// Lifestyle groups the self-reported habit fields, stored as one jsonb blob.
type Lifestyle struct {
	SmokingStatus     string   `json:"smoking_status,omitempty"` // never, former, current
	AlcoholUse        string   `json:"alcohol_use,omitempty"`    // never, rarely, socially, regularly, heavily
	ExerciseFrequency string   `json:"exercise_frequency,omitempty"`
	DietType          string   `json:"diet_type,omitempty"`
	DietRestrictions  []string `json:"diet_restrictions,omitempty"`
	SleepHoursTarget  *float64 `json:"sleep_hours_target,omitempty"`
	StressLevel       string   `json:"stress_level,omitempty"` // very-low .. very-high
}

type Privacy struct {
	ShareWithDoctors bool `json:"share_with_doctors"`
	ShareForResearch bool `json:"share_for_research"`
	AllowAnalytics   bool `json:"allow_analytics"`
}

// Profile maps to the health_profile table; one row per user.
type Profile struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	UserID         uuid.UUID         `db:"user_id" json:"user_id"`
	BloodType      *string           `db:"blood_type" json:"blood_type,omitempty"`
	HeightCM       *float64          `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG       *float64          `db:"weight_kg" json:"weight_kg,omitempty"`
	MedicalHistory []Condition       `db:"medical_history" json:"medical_history,omitempty"`
	Allergies      []Allergy         `db:"allergies" json:"allergies,omitempty"`
	FamilyHistory  []FamilyCondition `db:"family_history" json:"family_history,omitempty"`
	Immunizations  []Immunization    `db:"immunizations" json:"immunizations,omitempty"`
	HealthGoals    []HealthGoal      `db:"health_goals" json:"health_goals,omitempty"`
	Lifestyle      *Lifestyle        `db:"lifestyle" json:"lifestyle,omitempty"`
	Privacy        Privacy           `db:"privacy" json:"privacy"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`

	BMI *float64 `db:"-" json:"bmi,omitempty"`
}

// ComputeBMI fills BMI from height and weight when both are present.
func (p *Profile) ComputeBMI() {
	if p.HeightCM == nil || p.WeightKG == nil || *p.HeightCM <= 0 {
		p.BMI = nil
		return
	}
	meters := *p.HeightCM / 100
	bmi := *p.WeightKG / (meters * meters)
	rounded := float64(int(bmi*10+0.5)) / 10
	p.BMI = &rounded
}
