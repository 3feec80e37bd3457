package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthbridge/api/internal/domain/observation"
)

type stubObservationRepo struct {
	created []*observation.Observation
	fail    bool
}

func (r *stubObservationRepo) Create(_ context.Context, o *observation.Observation) error {
	if r.fail {
		return context.DeadlineExceeded
	}
	r.created = append(r.created, o)
	return nil
}

func (r *stubObservationRepo) GetByID(context.Context, uuid.UUID) (*observation.Observation, error) {
	return nil, observation.ErrNotFound
}
func (r *stubObservationRepo) Update(context.Context, *observation.Observation) error { return nil }
func (r *stubObservationRepo) Delete(context.Context, uuid.UUID) error                { return nil }
func (r *stubObservationRepo) ListByUser(context.Context, uuid.UUID, observation.ListFilter, int, int) ([]*observation.Observation, int, error) {
	return nil, 0, nil
}
func (r *stubObservationRepo) ListSince(context.Context, uuid.UUID, time.Time) ([]*observation.Observation, error) {
	return nil, nil
}
func (r *stubObservationRepo) ListRange(context.Context, uuid.UUID, *time.Time, *time.Time) ([]*observation.Observation, error) {
	return nil, nil
}

func TestIntakeTimeline_RecordsTakenDose(t *testing.T) {
	repo := &stubObservationRepo{}
	timeline := &intakeTimeline{
		observations: observation.NewService(repo),
		logger:       zerolog.Nop(),
	}

	userID := uuid.New()
	courseID := uuid.New()
	takenAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	note := "with breakfast"
	timeline.RecordMedicationIntake(context.Background(), userID, courseID, true, takenAt, &note)

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(repo.created))
	}
	entry := repo.created[0]
	if entry.Type != "medication-intake" {
		t.Errorf("type = %s", entry.Type)
	}
	if entry.Source != "system" {
		t.Errorf("source = %s", entry.Source)
	}
	if entry.UserID != userID {
		t.Error("entry must belong to the dosing user")
	}
	if !entry.RecordedAt.Equal(takenAt) {
		t.Errorf("recorded_at = %v, want %v", entry.RecordedAt, takenAt)
	}
	if entry.Note == nil || !strings.Contains(*entry.Note, "taken") || !strings.Contains(*entry.Note, "with breakfast") {
		t.Errorf("note = %v", entry.Note)
	}
}

func TestIntakeTimeline_SkippedDose(t *testing.T) {
	repo := &stubObservationRepo{}
	timeline := &intakeTimeline{
		observations: observation.NewService(repo),
		logger:       zerolog.Nop(),
	}

	timeline.RecordMedicationIntake(context.Background(), uuid.New(), uuid.New(), false, time.Now(), nil)

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(repo.created))
	}
	if note := repo.created[0].Note; note == nil || !strings.Contains(*note, "skipped") {
		t.Errorf("note = %v", note)
	}
}

func TestIntakeTimeline_SwallowsWriteFailure(t *testing.T) {
	repo := &stubObservationRepo{fail: true}
	timeline := &intakeTimeline{
		observations: observation.NewService(repo),
		logger:       zerolog.Nop(),
	}

	// Must not panic or propagate; the intake itself already succeeded.
	timeline.RecordMedicationIntake(context.Background(), uuid.New(), uuid.New(), true, time.Now(), nil)

	if len(repo.created) != 0 {
		t.Fatal("no entry should be recorded when the write fails")
	}
}
