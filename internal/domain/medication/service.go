package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthbridge/api/internal/platform/metrics"
)

var (
	ErrNotFound  = errors.New("medication course not found")
	ErrForbidden = errors.New("medication course belongs to another user")
)

var validCourseStatuses = map[string]bool{
	"active":       true,
	"paused":       true,
	"discontinued": true,
	"completed":    true,
}

// courseTransitions encodes the lifecycle: paused courses can resume,
// discontinued and completed are terminal. Transitions never touch the
// adherence counters.
var courseTransitions = map[string]map[string]bool{
	"active": {"paused": true, "discontinued": true, "completed": true},
	"paused": {"active": true, "discontinued": true},
}

// IntakeRecorder receives a copy of every dose event so the health data
// timeline can carry medication-intake entries. Failures are logged by the
// recorder, never surfaced to the intake caller.
type IntakeRecorder interface {
	RecordMedicationIntake(ctx context.Context, userID, courseID uuid.UUID, taken bool, takenAt time.Time, note *string)
}

type Service struct {
	medications MedicationRepository
	courses     CourseRepository
	recorder    IntakeRecorder
}

func NewService(medications MedicationRepository, courses CourseRepository) *Service {
	return &Service{medications: medications, courses: courses}
}

// SetIntakeRecorder attaches an optional intake recorder to the service.
func (s *Service) SetIntakeRecorder(r IntakeRecorder) {
	s.recorder = r
}

// =========== Catalog ===========

func (s *Service) SearchMedications(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	return s.medications.Search(ctx, query, limit, offset)
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// =========== Courses ===========

func (s *Service) CreateCourse(ctx context.Context, userID uuid.UUID, c *Course) (*Course, error) {
	if c.MedicationID == uuid.Nil {
		return nil, fmt.Errorf("medication_id is required")
	}
	if c.DosageAmount <= 0 {
		return nil, fmt.Errorf("dosage_amount must be positive")
	}
	if c.DosageUnit == "" {
		return nil, fmt.Errorf("dosage_unit is required")
	}
	if c.Frequency == "" {
		return nil, fmt.Errorf("frequency is required")
	}
	if _, err := s.medications.GetByID(ctx, c.MedicationID); err != nil {
		return nil, fmt.Errorf("unknown medication")
	}
	if c.Status == "" {
		c.Status = "active"
	}
	if !validCourseStatuses[c.Status] {
		return nil, fmt.Errorf("invalid status: %s", c.Status)
	}
	if c.StartDate.IsZero() {
		c.StartDate = time.Now().UTC()
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return nil, fmt.Errorf("end_date must not precede start_date")
	}
	c.UserID = userID
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCourse(ctx context.Context, userID, id uuid.UUID) (*CourseDetail, error) {
	d, err := s.courses.GetDetail(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *Service) UpdateCourse(ctx context.Context, userID, id uuid.UUID, in *Course) (*Course, error) {
	existing, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}
	if in.DosageAmount > 0 {
		existing.DosageAmount = in.DosageAmount
	}
	if in.DosageUnit != "" {
		existing.DosageUnit = in.DosageUnit
	}
	if in.Frequency != "" {
		existing.Frequency = in.Frequency
	}
	if !in.StartDate.IsZero() {
		existing.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		existing.EndDate = in.EndDate
	}
	if in.Instructions != nil {
		existing.Instructions = in.Instructions
	}
	if in.Status != "" && in.Status != existing.Status {
		if !validCourseStatuses[in.Status] {
			return nil, fmt.Errorf("invalid status: %s", in.Status)
		}
		if !courseTransitions[existing.Status][in.Status] {
			return nil, fmt.Errorf("cannot transition course from %s to %s", existing.Status, in.Status)
		}
		existing.Status = in.Status
	}
	if existing.EndDate != nil && existing.EndDate.Before(existing.StartDate) {
		return nil, fmt.Errorf("end_date must not precede start_date")
	}
	if err := s.courses.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) DeleteCourse(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	return s.courses.Delete(ctx, id)
}

func (s *Service) ListCourses(ctx context.Context, userID uuid.UUID, filter CourseListFilter, limit, offset int) ([]*CourseDetail, int, error) {
	if filter.Status != "" && !validCourseStatuses[filter.Status] {
		return nil, 0, fmt.Errorf("invalid status: %s", filter.Status)
	}
	return s.courses.ListByUser(ctx, userID, filter, limit, offset)
}

// ListActiveCourses feeds the analytics layer; no pagination.
func (s *Service) ListActiveCourses(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error) {
	return s.courses.ListActiveByUser(ctx, userID)
}

// AllCourses returns every course regardless of status, for analytics and
// export.
func (s *Service) AllCourses(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error) {
	return s.courses.ListAllByUser(ctx, userID)
}

// =========== Intake ===========

func (s *Service) RecordIntake(ctx context.Context, userID, courseID uuid.UUID, req IntakeRequest) (*IntakeResult, error) {
	existing, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, ErrNotFound
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}
	if existing.Status != "active" {
		return nil, fmt.Errorf("course is not active")
	}

	wasScheduled := true
	if req.WasScheduled != nil {
		wasScheduled = *req.WasScheduled
	}
	takenAt := time.Now().UTC()
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}

	updated, err := s.courses.RecordIntake(ctx, courseID, wasScheduled, req.Taken, takenAt)
	if err != nil {
		return nil, err
	}

	switch {
	case wasScheduled && req.Taken:
		metrics.RecordIntake("taken")
	case wasScheduled:
		metrics.RecordIntake("skipped")
	default:
		metrics.RecordIntake("missed")
	}

	if s.recorder != nil {
		s.recorder.RecordMedicationIntake(ctx, userID, courseID, req.Taken, takenAt, req.Note)
	}

	return &IntakeResult{
		AdherenceRate:    updated.AdherenceRate,
		LastTaken:        updated.LastTaken,
		ComplianceStatus: ComplianceStatus(updated.AdherenceRate),
	}, nil
}

func (s *Service) AdherenceReport(ctx context.Context, userID, courseID uuid.UUID) (*AdherenceReport, error) {
	d, err := s.GetCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &AdherenceReport{
		CourseID:         d.ID,
		MedicationName:   d.MedicationName,
		TotalScheduled:   d.TotalScheduled,
		TakenCorrectly:   d.TakenCorrectly,
		TakenIncorrectly: d.TakenIncorrectly,
		Missed:           d.Missed,
		AdherenceRate:    d.AdherenceRate,
		ComplianceStatus: ComplianceStatus(d.AdherenceRate),
		LastTaken:        d.LastTaken,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
	}, nil
}
