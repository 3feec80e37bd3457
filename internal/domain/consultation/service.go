package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("consultation not found")
	ErrForbidden = errors.New("consultation belongs to other participants")
)

var validTypes = map[string]bool{
	"video":     true,
	"audio":     true,
	"chat":      true,
	"in-person": true,
}

var validStatuses = map[string]bool{
	"scheduled":   true,
	"in-progress": true,
	"completed":   true,
	"cancelled":   true,
	"no-show":     true,
}

// statusTransitions: cancelled, completed and no-show are terminal.
var statusTransitions = map[string]map[string]bool{
	"scheduled":   {"in-progress": true, "completed": true, "cancelled": true, "no-show": true},
	"in-progress": {"completed": true, "cancelled": true},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create schedules a consultation; the requester becomes the patient.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, c *Consultation) (*Consultation, error) {
	if c.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if !validTypes[c.Type] {
		return nil, fmt.Errorf("invalid consultation type: %s", c.Type)
	}
	if c.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("scheduled_at is required")
	}
	if c.ChiefComplaint == "" {
		return nil, fmt.Errorf("chief_complaint is required")
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = 30
	}
	c.PatientID = patientID
	c.Status = "scheduled"
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.PatientID != userID && c.DoctorID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Consultation, int, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, 0, fmt.Errorf("invalid status: %s", filter.Status)
	}
	if filter.Type != "" && !validTypes[filter.Type] {
		return nil, 0, fmt.Errorf("invalid consultation type: %s", filter.Type)
	}
	return s.repo.ListByParticipant(ctx, userID, filter, limit, offset)
}

// Update lets either participant amend a consultation. Patients may change
// the complaint and symptoms; notes and clinical fields belong to the
// doctor. Status moves through UpdateStatus, not here.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in *Consultation) (*Consultation, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	isPatient := existing.PatientID == userID
	isDoctor := existing.DoctorID == userID

	if isPatient {
		if in.ChiefComplaint != "" {
			existing.ChiefComplaint = in.ChiefComplaint
		}
		if in.Symptoms != nil {
			existing.Symptoms = in.Symptoms
		}
		if !in.ScheduledAt.IsZero() && existing.Status == "scheduled" {
			existing.ScheduledAt = in.ScheduledAt
		}
	}
	if isDoctor {
		if in.Diagnosis != nil {
			existing.Diagnosis = in.Diagnosis
		}
		if in.TreatmentPlan != nil {
			existing.TreatmentPlan = in.TreatmentPlan
		}
		if in.FollowUpInstructions != nil {
			existing.FollowUpInstructions = in.FollowUpInstructions
		}
		if in.DoctorNotes != nil {
			existing.DoctorNotes = in.DoctorNotes
		}
		if in.ActualDurationMinutes != nil {
			existing.ActualDurationMinutes = in.ActualDurationMinutes
		}
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UpdateStatus moves the consultation through its lifecycle. Completing
// stamps completed_at and fills the actual duration from the schedule when
// the doctor never recorded one.
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*Consultation, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if status != existing.Status {
		if !statusTransitions[existing.Status][status] {
			return nil, fmt.Errorf("cannot transition consultation from %s to %s", existing.Status, status)
		}
		existing.Status = status
		if status == "completed" {
			now := time.Now().UTC()
			existing.CompletedAt = &now
			if existing.ActualDurationMinutes == nil {
				elapsed := int(now.Sub(existing.ScheduledAt).Minutes())
				if elapsed < 0 {
					elapsed = 0
				}
				existing.ActualDurationMinutes = &elapsed
			}
		}
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Rate records the patient's rating; only the patient may rate and only
// once the consultation completed.
func (s *Service) Rate(ctx context.Context, userID, id uuid.UUID, req RateRequest) (*Consultation, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if existing.PatientID != userID {
		return nil, ErrForbidden
	}
	if existing.Status != "completed" {
		return nil, fmt.Errorf("only completed consultations can be rated")
	}
	existing.Rating = &req.Rating
	existing.Feedback = req.Feedback
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// CountCompletedSince feeds the health score's engagement component.
func (s *Service) CountCompletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) (int, error) {
	return s.repo.CountCompletedSince(ctx, patientID, since)
}

// ListByPatientRange feeds analytics and export.
func (s *Service) ListByPatientRange(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*Consultation, error) {
	return s.repo.ListByPatientRange(ctx, patientID, from, to)
}
