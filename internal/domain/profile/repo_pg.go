package profile

import (
	"context"
	"fmt"

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

const profileCols = `id, user_id, blood_type, height_cm, weight_kg,
	medical_history, allergies, family_history, immunizations, health_goals,
	lifestyle, privacy, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.BloodType, &p.HeightCM, &p.WeightKG,
		&p.MedicalHistory, &p.Allergies, &p.FamilyHistory, &p.Immunizations, &p.HealthGoals,
		&p.Lifestyle, &p.Privacy, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM health_profile WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("get health profile: %w", err)
	}
	return p, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_profile (
			id, user_id, blood_type, height_cm, weight_kg,
			medical_history, allergies, family_history, immunizations,
			health_goals, lifestyle, privacy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			blood_type = EXCLUDED.blood_type,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			medical_history = EXCLUDED.medical_history,
			allergies = EXCLUDED.allergies,
			family_history = EXCLUDED.family_history,
			immunizations = EXCLUDED.immunizations,
			health_goals = EXCLUDED.health_goals,
			lifestyle = EXCLUDED.lifestyle,
			privacy = EXCLUDED.privacy,
			updated_at = NOW()`,
		p.ID, p.UserID, p.BloodType, p.HeightCM, p.WeightKG,
		p.MedicalHistory, p.Allergies, p.FamilyHistory, p.Immunizations,
		p.HealthGoals, p.Lifestyle, p.Privacy)
	if err != nil {
		return fmt.Errorf("upsert health profile: %w", err)
	}
	return nil
}
