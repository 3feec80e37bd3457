package observation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthbridge/api/internal/platform/metrics"
)

var (
	ErrNotFound  = errors.New("health data entry not found")
	ErrForbidden = errors.New("health data entry belongs to another user")
)

var validObservationTypes = map[string]bool{
	"heart-rate": true, "blood-pressure": true, "temperature": true,
	"respiratory-rate": true, "oxygen-saturation": true,
	"weight": true, "height": true, "glucose": true,
	"steps": true, "calories-burned": true, "distance": true, "active-minutes": true,
	"sleep": true, "mood": true, "stress": true,
	"medication-intake": true, "symptom": true,
}

var validSources = map[string]bool{
	"manual": true, "device": true, "wearable": true, "import": true, "system": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, o *Observation) error {
	if o.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if o.Type == "" {
		return fmt.Errorf("type is required")
	}
	if !validObservationTypes[o.Type] {
		return fmt.Errorf("invalid type: %s", o.Type)
	}
	if o.Source == "" {
		o.Source = "manual"
	}
	if !validSources[o.Source] {
		return fmt.Errorf("invalid source: %s", o.Source)
	}
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	if err := validateValues(o); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	metrics.RecordObservation()
	return nil
}

// validateValues checks that the value column matching the entry type is set
// and within a sane range.
func validateValues(o *Observation) error {
	switch o.Type {
	case "heart-rate":
		if o.HeartRate == nil {
			return fmt.Errorf("heart_rate is required for type heart-rate")
		}
		if *o.HeartRate <= 0 || *o.HeartRate > 300 {
			return fmt.Errorf("heart_rate out of range: %g", *o.HeartRate)
		}
	case "blood-pressure":
		if o.SystolicBP == nil || o.DiastolicBP == nil {
			return fmt.Errorf("systolic_bp and diastolic_bp are required for type blood-pressure")
		}
	case "weight":
		if o.Weight == nil {
			return fmt.Errorf("weight is required for type weight")
		}
	case "glucose":
		if o.Glucose == nil {
			return fmt.Errorf("glucose is required for type glucose")
		}
	case "steps":
		if o.Steps == nil {
			return fmt.Errorf("steps is required for type steps")
		}
		if *o.Steps < 0 {
			return fmt.Errorf("steps must be non-negative")
		}
	case "sleep":
		if o.SleepDuration == nil {
			return fmt.Errorf("sleep_duration is required for type sleep")
		}
		if *o.SleepDuration < 0 {
			return fmt.Errorf("sleep_duration must be non-negative")
		}
	case "mood":
		if o.MoodScore == nil {
			return fmt.Errorf("mood_score is required for type mood")
		}
		if *o.MoodScore < 1 || *o.MoodScore > 10 {
			return fmt.Errorf("mood_score must be between 1 and 10")
		}
	}
	return nil
}

// Get returns the entry if it exists and belongs to userID.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Observation, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, o *Observation) error {
	existing, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return ErrNotFound
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	o.UserID = existing.UserID
	if o.Type == "" {
		o.Type = existing.Type
	}
	if !validObservationTypes[o.Type] {
		return fmt.Errorf("invalid type: %s", o.Type)
	}
	if o.Source == "" {
		o.Source = existing.Source
	}
	if o.RecordedAt.IsZero() {
		o.RecordedAt = existing.RecordedAt
	}
	return s.repo.Update(ctx, o)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Observation, int, error) {
	if filter.Type != "" && !validObservationTypes[filter.Type] {
		return nil, 0, fmt.Errorf("invalid type: %s", filter.Type)
	}
	return s.repo.ListByUser(ctx, userID, filter, limit, offset)
}

// ListSince exposes raw ascending history for analytics consumers.
func (s *Service) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Observation, error) {
	return s.repo.ListSince(ctx, userID, since)
}

// ListRange exposes raw ascending history within a window for exports.
func (s *Service) ListRange(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Observation, error) {
	return s.repo.ListRange(ctx, userID, from, to)
}
