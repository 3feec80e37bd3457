package medication

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

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

func (r *medicationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medCols = `id, name, generic_name, brand_names, drug_class, description,
	indications, contraindications, side_effects, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.BrandNames, &m.DrugClass, &m.Description,
		&m.Indications, &m.Contraindications, &m.SideEffects, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM medication WHERE id = $1`, id)
	m, err := scanMedication(row)
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (r *medicationRepoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	where := ``
	args := []interface{}{}
	if query != "" {
		where = ` WHERE name ILIKE $1 OR generic_name ILIKE $1 OR EXISTS (
			SELECT 1 FROM unnest(brand_names) b WHERE b ILIKE $1)`
		args = append(args, "%"+query+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medications: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM medication%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
			medCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search medications: %w", err)
	}
	defer rows.Close()

	var meds []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan medication: %w", err)
		}
		meds = append(meds, m)
	}
	return meds, total, rows.Err()
}

// =========== Course Repository ===========

type courseRepoPG struct{ pool *pgxpool.Pool }

func NewCourseRepoPG(pool *pgxpool.Pool) CourseRepository {
	return &courseRepoPG{pool: pool}
}

func (r *courseRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const courseCols = `id, user_id, medication_id, prescribed_by,
	dosage_amount, dosage_unit, frequency, start_date, end_date, instructions, status,
	total_scheduled, taken_correctly, taken_incorrectly, missed,
	adherence_rate, last_taken, created_at, updated_at`

func scanCourse(row pgx.Row) (*Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.UserID, &c.MedicationID, &c.PrescribedBy,
		&c.DosageAmount, &c.DosageUnit, &c.Frequency, &c.StartDate, &c.EndDate, &c.Instructions, &c.Status,
		&c.TotalScheduled, &c.TakenCorrectly, &c.TakenIncorrectly, &c.Missed,
		&c.AdherenceRate, &c.LastTaken, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

// courseDetailCols prefixes courseCols with the table alias and appends the
// joined catalog columns.
const courseDetailCols = `c.id, c.user_id, c.medication_id, c.prescribed_by,
	c.dosage_amount, c.dosage_unit, c.frequency, c.start_date, c.end_date, c.instructions, c.status,
	c.total_scheduled, c.taken_correctly, c.taken_incorrectly, c.missed,
	c.adherence_rate, c.last_taken, c.created_at, c.updated_at,
	m.name, m.drug_class`

func scanCourseDetail(row pgx.Row) (*CourseDetail, error) {
	var d CourseDetail
	err := row.Scan(&d.ID, &d.UserID, &d.MedicationID, &d.PrescribedBy,
		&d.DosageAmount, &d.DosageUnit, &d.Frequency, &d.StartDate, &d.EndDate, &d.Instructions, &d.Status,
		&d.TotalScheduled, &d.TakenCorrectly, &d.TakenIncorrectly, &d.Missed,
		&d.AdherenceRate, &d.LastTaken, &d.CreatedAt, &d.UpdatedAt,
		&d.MedicationName, &d.DrugClass)
	return &d, err
}

func (r *courseRepoPG) Create(ctx context.Context, c *Course) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_course (
			id, user_id, medication_id, prescribed_by,
			dosage_amount, dosage_unit, frequency, start_date, end_date, instructions, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.UserID, c.MedicationID, c.PrescribedBy,
		c.DosageAmount, c.DosageUnit, c.Frequency, c.StartDate, c.EndDate, c.Instructions, c.Status)
	if err != nil {
		return fmt.Errorf("create medication course: %w", err)
	}
	return nil
}

func (r *courseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+courseCols+` FROM medication_course WHERE id = $1`, id)
	c, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("get medication course: %w", err)
	}
	return c, nil
}

func (r *courseRepoPG) GetDetail(ctx context.Context, id uuid.UUID) (*CourseDetail, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+courseDetailCols+`
		FROM medication_course c
		JOIN medication m ON m.id = c.medication_id
		WHERE c.id = $1`, id)
	d, err := scanCourseDetail(row)
	if err != nil {
		return nil, fmt.Errorf("get medication course detail: %w", err)
	}
	return d, nil
}

func (r *courseRepoPG) Update(ctx context.Context, c *Course) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication_course SET
			dosage_amount = $2, dosage_unit = $3, frequency = $4,
			start_date = $5, end_date = $6, instructions = $7, status = $8,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.DosageAmount, c.DosageUnit, c.Frequency,
		c.StartDate, c.EndDate, c.Instructions, c.Status)
	if err != nil {
		return fmt.Errorf("update medication course: %w", err)
	}
	return nil
}

func (r *courseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication_course WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medication course: %w", err)
	}
	return nil
}

func (r *courseRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, filter CourseListFilter, limit, offset int) ([]*CourseDetail, int, error) {
	where := ` WHERE c.user_id = $1`
	args := []interface{}{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND c.status = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_course c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medication courses: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM medication_course c
		JOIN medication m ON m.id = c.medication_id
		%s ORDER BY c.start_date DESC LIMIT $%d OFFSET $%d`,
		courseDetailCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medication courses: %w", err)
	}
	defer rows.Close()

	var courses []*CourseDetail
	for rows.Next() {
		d, err := scanCourseDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan medication course: %w", err)
		}
		courses = append(courses, d)
	}
	return courses, total, rows.Err()
}

func (r *courseRepoPG) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error) {
	return r.listDetails(ctx, `
		SELECT `+courseDetailCols+`
		FROM medication_course c
		JOIN medication m ON m.id = c.medication_id
		WHERE c.user_id = $1
		ORDER BY c.start_date DESC`, userID)
}

func (r *courseRepoPG) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*CourseDetail, error) {
	return r.listDetails(ctx, `
		SELECT `+courseDetailCols+`
		FROM medication_course c
		JOIN medication m ON m.id = c.medication_id
		WHERE c.user_id = $1 AND c.status = 'active'
		ORDER BY c.start_date DESC`, userID)
}

func (r *courseRepoPG) listDetails(ctx context.Context, sql string, args ...interface{}) ([]*CourseDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list medication courses: %w", err)
	}
	defer rows.Close()

	var courses []*CourseDetail
	for rows.Next() {
		d, err := scanCourseDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication course: %w", err)
		}
		courses = append(courses, d)
	}
	return courses, rows.Err()
}

func (r *courseRepoPG) RecordIntake(ctx context.Context, id uuid.UUID, wasScheduled, taken bool, takenAt time.Time) (*Course, error) {
	// All counters and the recomputed rate move in one statement so
	// concurrent intakes cannot interleave partial updates.
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE medication_course SET
			total_scheduled   = total_scheduled + 1,
			taken_correctly   = taken_correctly + CASE WHEN $2 AND $3 THEN 1 ELSE 0 END,
			taken_incorrectly = taken_incorrectly + CASE WHEN $2 AND NOT $3 THEN 1 ELSE 0 END,
			missed            = missed + CASE WHEN NOT $2 THEN 1 ELSE 0 END,
			last_taken        = CASE WHEN $2 AND $3 THEN $4 ELSE last_taken END,
			adherence_rate    = ROUND(
				(taken_correctly + CASE WHEN $2 AND $3 THEN 1 ELSE 0 END)::numeric
				/ (total_scheduled + 1) * 100),
			updated_at        = NOW()
		WHERE id = $1
		RETURNING `+courseCols,
		id, wasScheduled, taken, takenAt)
	c, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("record intake: %w", err)
	}
	return c, nil
}
