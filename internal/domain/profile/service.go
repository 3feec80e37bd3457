package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validBloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's profile, or an empty one when nothing has been
// saved yet. A fresh portal account always has a readable profile.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		p = &Profile{
			UserID:  userID,
			Privacy: Privacy{ShareWithDoctors: true, AllowAnalytics: true},
		}
	}
	p.ComputeBMI()
	return p, nil
}

// Save upserts the profile for the user; ownership is taken from the
// request, never from the payload.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, p *Profile) (*Profile, error) {
	if p.BloodType != nil && !validBloodTypes[*p.BloodType] {
		return nil, fmt.Errorf("invalid blood type: %s", *p.BloodType)
	}
	if p.HeightCM != nil && (*p.HeightCM <= 0 || *p.HeightCM > 300) {
		return nil, fmt.Errorf("height_cm out of range")
	}
	if p.WeightKG != nil && (*p.WeightKG <= 0 || *p.WeightKG > 700) {
		return nil, fmt.Errorf("weight_kg out of range")
	}
	for _, g := range p.HealthGoals {
		if g.Progress < 0 || g.Progress > 100 {
			return nil, fmt.Errorf("goal progress must be between 0 and 100")
		}
	}
	for _, a := range p.Allergies {
		if a.Allergen == "" {
			return nil, fmt.Errorf("allergen is required")
		}
	}
	p.UserID = userID
	if existing, err := s.repo.GetByUser(ctx, userID); err == nil {
		p.ID = existing.ID
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	p.ComputeBMI()
	return p, nil
}
