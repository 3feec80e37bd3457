package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table: the shared drug catalog that
// courses reference.
type Medication struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	GenericName       *string   `db:"generic_name" json:"generic_name,omitempty"`
	BrandNames        []string  `db:"brand_names" json:"brand_names,omitempty"`
	DrugClass         *string   `db:"drug_class" json:"drug_class,omitempty"`
	Description       *string   `db:"description" json:"description,omitempty"`
	Indications       []string  `db:"indications" json:"indications,omitempty"`
	Contraindications []string  `db:"contraindications" json:"contraindications,omitempty"`
	SideEffects       []string  `db:"side_effects" json:"side_effects,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Course maps to the medication_course table: one user's prescription of a
// catalog medication, carrying the adherence counters.
type Course struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	MedicationID     uuid.UUID  `db:"medication_id" json:"medication_id"`
	PrescribedBy     *uuid.UUID `db:"prescribed_by" json:"prescribed_by,omitempty"`
	DosageAmount     float64    `db:"dosage_amount" json:"dosage_amount"`
	DosageUnit       string     `db:"dosage_unit" json:"dosage_unit"`
	Frequency        string     `db:"frequency" json:"frequency"`
	StartDate        time.Time  `db:"start_date" json:"start_date"`
	EndDate          *time.Time `db:"end_date" json:"end_date,omitempty"`
	Instructions     *string    `db:"instructions" json:"instructions,omitempty"`
	Status           string     `db:"status" json:"status"`
	TotalScheduled   int        `db:"total_scheduled" json:"total_scheduled"`
	TakenCorrectly   int        `db:"taken_correctly" json:"taken_correctly"`
	TakenIncorrectly int        `db:"taken_incorrectly" json:"taken_incorrectly"`
	Missed           int        `db:"missed" json:"missed"`
	AdherenceRate    int        `db:"adherence_rate" json:"adherence_rate"`
	LastTaken        *time.Time `db:"last_taken" json:"last_taken,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseDetail is a Course joined with its catalog medication, used by
// listings and analytics.
type CourseDetail struct {
	Course
	MedicationName string  `json:"medication_name"`
	DrugClass      *string `json:"drug_class,omitempty"`
}

// ComplianceStatus buckets an adherence rate into the tier reported to
// clients.
func ComplianceStatus(adherenceRate int) string {
	switch {
	case adherenceRate >= 90:
		return "excellent"
	case adherenceRate >= 80:
		return "good"
	case adherenceRate >= 70:
		return "fair"
	case adherenceRate >= 60:
		return "poor"
	default:
		return "critical"
	}
}

// IntakeRequest is the payload for recording a dose event against a course.
type IntakeRequest struct {
	Taken        bool       `json:"taken"`
	WasScheduled *bool      `json:"was_scheduled,omitempty"` // defaults to true
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	Note         *string    `json:"note,omitempty"`
}

// IntakeResult is returned after a dose event has been applied.
type IntakeResult struct {
	AdherenceRate    int        `json:"adherence_rate"`
	LastTaken        *time.Time `json:"last_taken,omitempty"`
	ComplianceStatus string     `json:"compliance_status"`
}

// AdherenceReport summarizes a course's counters.
type AdherenceReport struct {
	CourseID         uuid.UUID  `json:"course_id"`
	MedicationName   string     `json:"medication_name"`
	TotalScheduled   int        `json:"total_scheduled"`
	TakenCorrectly   int        `json:"taken_correctly"`
	TakenIncorrectly int        `json:"taken_incorrectly"`
	Missed           int        `json:"missed"`
	AdherenceRate    int        `json:"adherence_rate"`
	ComplianceStatus string     `json:"compliance_status"`
	LastTaken        *time.Time `json:"last_taken,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}
