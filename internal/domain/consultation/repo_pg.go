package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthbridge/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const consultationCols = `id, patient_id, doctor_id, type, status,
	scheduled_at, duration_minutes, actual_duration_minutes,
	chief_complaint, symptoms, diagnosis, treatment_plan,
	follow_up_instructions, doctor_notes, rating, feedback,
	completed_at, created_at, updated_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.DoctorID, &c.Type, &c.Status,
		&c.ScheduledAt, &c.DurationMinutes, &c.ActualDurationMinutes,
		&c.ChiefComplaint, &c.Symptoms, &c.Diagnosis, &c.TreatmentPlan,
		&c.FollowUpInstructions, &c.DoctorNotes, &c.Rating, &c.Feedback,
		&c.CompletedAt, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultation (
			id, patient_id, doctor_id, type, status,
			scheduled_at, duration_minutes, chief_complaint, symptoms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.PatientID, c.DoctorID, c.Type, c.Status,
		c.ScheduledAt, c.DurationMinutes, c.ChiefComplaint, c.Symptoms)
	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultation WHERE id = $1`, id)
	c, err := scanConsultation(row)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET
			type = $2, status = $3, scheduled_at = $4, duration_minutes = $5,
			actual_duration_minutes = $6, chief_complaint = $7, symptoms = $8,
			diagnosis = $9, treatment_plan = $10, follow_up_instructions = $11,
			doctor_notes = $12, rating = $13, feedback = $14, completed_at = $15,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Type, c.Status, c.ScheduledAt, c.DurationMinutes,
		c.ActualDurationMinutes, c.ChiefComplaint, c.Symptoms,
		c.Diagnosis, c.TreatmentPlan, c.FollowUpInstructions,
		c.DoctorNotes, c.Rating, c.Feedback, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return nil
}

func (r *repoPG) ListByParticipant(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Consultation, int, error) {
	where := ` WHERE (patient_id = $1 OR doctor_id = $1)`
	args := []interface{}{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultation`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count consultations: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM consultation%s ORDER BY scheduled_at DESC LIMIT $%d OFFSET $%d`,
			consultationCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	var out []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan consultation: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repoPG) CountCompletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM consultation
		WHERE patient_id = $1 AND status = 'completed' AND scheduled_at >= $2`,
		patientID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed consultations: %w", err)
	}
	return count, nil
}

func (r *repoPG) ListByPatientRange(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*Consultation, error) {
	where := ` WHERE patient_id = $1`
	args := []interface{}{patientID}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(` AND scheduled_at >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(` AND scheduled_at <= $%d`, len(args))
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+consultationCols+` FROM consultation`+where+` ORDER BY scheduled_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations by range: %w", err)
	}
	defer rows.Close()

	var out []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
