package observation

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

const observationCols = `id, user_id, type, source, recorded_at,
	heart_rate, systolic_bp, diastolic_bp, temperature, respiratory_rate, oxygen_saturation,
	weight, weight_unit, height, glucose, glucose_unit,
	steps, calories_burned, distance_km, active_minutes,
	sleep_duration, sleep_quality, sleep_efficiency,
	mood_score, stress_level, note, created_at, updated_at`

func (r *repoPG) scanObservation(row pgx.Row) (*Observation, error) {
	var o Observation
	err := row.Scan(&o.ID, &o.UserID, &o.Type, &o.Source, &o.RecordedAt,
		&o.HeartRate, &o.SystolicBP, &o.DiastolicBP, &o.Temperature, &o.RespiratoryRate, &o.OxygenSaturation,
		&o.Weight, &o.WeightUnit, &o.Height, &o.Glucose, &o.GlucoseUnit,
		&o.Steps, &o.CaloriesBurned, &o.DistanceKM, &o.ActiveMinutes,
		&o.SleepDuration, &o.SleepQuality, &o.SleepEfficiency,
		&o.MoodScore, &o.StressLevel, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Observation) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_observation (id, user_id, type, source, recorded_at,
			heart_rate, systolic_bp, diastolic_bp, temperature, respiratory_rate, oxygen_saturation,
			weight, weight_unit, height, glucose, glucose_unit,
			steps, calories_burned, distance_km, active_minutes,
			sleep_duration, sleep_quality, sleep_efficiency,
			mood_score, stress_level, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
		o.ID, o.UserID, o.Type, o.Source, o.RecordedAt,
		o.HeartRate, o.SystolicBP, o.DiastolicBP, o.Temperature, o.RespiratoryRate, o.OxygenSaturation,
		o.Weight, o.WeightUnit, o.Height, o.Glucose, o.GlucoseUnit,
		o.Steps, o.CaloriesBurned, o.DistanceKM, o.ActiveMinutes,
		o.SleepDuration, o.SleepQuality, o.SleepEfficiency,
		o.MoodScore, o.StressLevel, o.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Observation, error) {
	return r.scanObservation(r.conn(ctx).QueryRow(ctx, `SELECT `+observationCols+` FROM health_observation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, o *Observation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_observation SET type=$2, source=$3, recorded_at=$4,
			heart_rate=$5, systolic_bp=$6, diastolic_bp=$7, temperature=$8,
			respiratory_rate=$9, oxygen_saturation=$10,
			weight=$11, weight_unit=$12, height=$13, glucose=$14, glucose_unit=$15,
			steps=$16, calories_burned=$17, distance_km=$18, active_minutes=$19,
			sleep_duration=$20, sleep_quality=$21, sleep_efficiency=$22,
			mood_score=$23, stress_level=$24, note=$25, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Type, o.Source, o.RecordedAt,
		o.HeartRate, o.SystolicBP, o.DiastolicBP, o.Temperature,
		o.RespiratoryRate, o.OxygenSaturation,
		o.Weight, o.WeightUnit, o.Height, o.Glucose, o.GlucoseUnit,
		o.Steps, o.CaloriesBurned, o.DistanceKM, o.ActiveMinutes,
		o.SleepDuration, o.SleepQuality, o.SleepEfficiency,
		o.MoodScore, o.StressLevel, o.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM health_observation WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Observation, int, error) {
	query := `SELECT ` + observationCols + ` FROM health_observation WHERE user_id = $1`
	countQuery := `SELECT COUNT(*) FROM health_observation WHERE user_id = $1`
	args := []interface{}{userID}
	idx := 2

	if filter.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND type = $%d`, idx)
		args = append(args, filter.Type)
		idx++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, idx)
		countQuery += fmt.Sprintf(` AND source = $%d`, idx)
		args = append(args, filter.Source)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		countQuery += fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		countQuery += fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		args = append(args, *filter.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Observation
	for rows.Next() {
		o, err := r.scanObservation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Observation, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+observationCols+` FROM health_observation
		WHERE user_id = $1 AND recorded_at >= $2 ORDER BY recorded_at ASC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Observation
	for rows.Next() {
		o, err := r.scanObservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, nil
}

func (r *repoPG) ListRange(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Observation, error) {
	query := `SELECT ` + observationCols + ` FROM health_observation WHERE user_id = $1`
	args := []interface{}{userID}
	idx := 2

	if from != nil {
		query += fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		args = append(args, *from)
		idx++
	}
	if to != nil {
		query += fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		args = append(args, *to)
		idx++
	}
	query += ` ORDER BY recorded_at ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Observation
	for rows.Next() {
		o, err := r.scanObservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, nil
}
