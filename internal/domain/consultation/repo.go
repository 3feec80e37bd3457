package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists consultations. Listings are keyed by participant:
// a user sees consultations where they are either the patient or the
// doctor.
type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	ListByParticipant(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Consultation, int, error)
	// CountCompletedSince feeds the engagement component of the health score.
	CountCompletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) (int, error)
	ListByPatientRange(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*Consultation, error)
}
