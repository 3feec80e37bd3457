package observation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Observation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Observation, error)
	Update(ctx context.Context, o *Observation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Observation, int, error)
	// ListSince returns all of a user's entries recorded at or after the
	// given instant, ordered by recorded_at ascending.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Observation, error)
	// ListRange returns all of a user's entries within [from, to], ordered
	// by recorded_at ascending. Nil bounds are open.
	ListRange(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Observation, error)
}
