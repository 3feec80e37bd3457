package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists one health profile per user.
type Repository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
