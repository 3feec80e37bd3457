package observation

import (
	"time"

	"github.com/google/uuid"
)

// Observation maps to the health_observation table. Each row is a single
// health data entry; the populated value columns depend on Type.
type Observation struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	Type             string     `db:"type" json:"type"`
	Source           string     `db:"source" json:"source"`
	RecordedAt       time.Time  `db:"recorded_at" json:"recorded_at"`
	HeartRate        *float64   `db:"heart_rate" json:"heart_rate,omitempty"`
	SystolicBP       *float64   `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *float64   `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	Temperature      *float64   `db:"temperature" json:"temperature,omitempty"`
	RespiratoryRate  *float64   `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	OxygenSaturation *float64   `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	Weight           *float64   `db:"weight" json:"weight,omitempty"`
	WeightUnit       *string    `db:"weight_unit" json:"weight_unit,omitempty"`
	Height           *float64   `db:"height" json:"height,omitempty"`
	Glucose          *float64   `db:"glucose" json:"glucose,omitempty"`
	GlucoseUnit      *string    `db:"glucose_unit" json:"glucose_unit,omitempty"`
	Steps            *int       `db:"steps" json:"steps,omitempty"`
	CaloriesBurned   *float64   `db:"calories_burned" json:"calories_burned,omitempty"`
	DistanceKM       *float64   `db:"distance_km" json:"distance_km,omitempty"`
	ActiveMinutes    *int       `db:"active_minutes" json:"active_minutes,omitempty"`
	SleepDuration    *float64   `db:"sleep_duration" json:"sleep_duration,omitempty"` // minutes
	SleepQuality     *string    `db:"sleep_quality" json:"sleep_quality,omitempty"`
	SleepEfficiency  *float64   `db:"sleep_efficiency" json:"sleep_efficiency,omitempty"`
	MoodScore        *float64   `db:"mood_score" json:"mood_score,omitempty"` // 1-10 scale
	StressLevel      *float64   `db:"stress_level" json:"stress_level,omitempty"`
	Note             *string    `db:"note" json:"note,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ListFilter narrows ListByUser results.
type ListFilter struct {
	Type   string
	Source string
	From   *time.Time
	To     *time.Time
}
