package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MedicationRepository reads the shared drug catalog.
type MedicationRepository interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
}

// CourseListFilter narrows course listings.
type CourseListFilter struct {
	Status string
}

// CourseRepository persists medication courses and their adherence counters.
type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*CourseDetail, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter CourseListFilter, limit, offset int) ([]*CourseDetail, int, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error)
	// RecordIntake applies a single dose event to the course counters in one
	// atomic statement and returns the updated course.
	RecordIntake(ctx context.Context, id uuid.UUID, wasScheduled, taken bool, takenAt time.Time) (*Course, error)
}
