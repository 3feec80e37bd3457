package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Symptom is a patient-reported complaint attached to a consultation,
// stored as jsonb.
type Symptom struct {
	Symptom  string `json:"symptom"`
	Severity string `json:"severity,omitempty"` // mild, moderate, severe
	Duration string `json:"duration,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Consultation maps to the consultation table.
type Consultation struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	PatientID             uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID              uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	Type                  string     `db:"type" json:"type"`     // video, audio, chat, in-person
	Status                string     `db:"status" json:"status"` // scheduled, in-progress, completed, cancelled, no-show
	ScheduledAt           time.Time  `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes       int        `db:"duration_minutes" json:"duration_minutes"`
	ActualDurationMinutes *int       `db:"actual_duration_minutes" json:"actual_duration_minutes,omitempty"`
	ChiefComplaint        string     `db:"chief_complaint" json:"chief_complaint"`
	Symptoms              []Symptom  `db:"symptoms" json:"symptoms,omitempty"`
	Diagnosis             *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	TreatmentPlan         *string    `db:"treatment_plan" json:"treatment_plan,omitempty"`
	FollowUpInstructions  *string    `db:"follow_up_instructions" json:"follow_up_instructions,omitempty"`
	DoctorNotes           *string    `db:"doctor_notes" json:"doctor_notes,omitempty"`
	Rating                *int       `db:"rating" json:"rating,omitempty"`
	Feedback              *string    `db:"feedback" json:"feedback,omitempty"`
	CompletedAt           *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// ListFilter narrows consultation listings for a participant.
type ListFilter struct {
	Status string
	Type   string
}

// RateRequest is the payload for rating a completed consultation.
type RateRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}
