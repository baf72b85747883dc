package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

const profileColumns = `id, full_name, email, position, positions, education, expertise_level, experience_years, technologies, created_at, updated_at`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Upsert(ctx context.Context, person profile.Person) (*profile.Person, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			position = EXCLUDED.position,
			positions = EXCLUDED.positions,
			education = EXCLUDED.education,
			expertise_level = EXCLUDED.expertise_level,
			experience_years = EXCLUDED.experience_years,
			technologies = EXCLUDED.technologies,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		person.ID, person.FullName, person.Email, person.Position, pq.Array(person.Positions), person.Education,
		person.ExpertiseLevel, person.ExperienceYears, pq.Array(person.Technologies), now)
	stored, err := scanProfile(row)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to save profile", err)
	}
	return stored, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id common.UUID) (*profile.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	person, err := scanProfile(row)
	if err != nil {
		return nil, notFoundOr(err, "profile not found", "failed to load profile")
	}
	return person, nil
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]profile.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list profiles", err)
	}
	defer rows.Close()
	items := []profile.Person{}
	for rows.Next() {
		person, err := scanProfile(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan profile", err)
		}
		items = append(items, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list profiles", err)
	}
	return items, nil
}

func scanProfile(row scanner) (*profile.Person, error) {
	var person profile.Person
	var positions, technologies pq.StringArray
	if err := row.Scan(&person.ID, &person.FullName, &person.Email, &person.Position, &positions, &person.Education,
		&person.ExpertiseLevel, &person.ExperienceYears, &technologies, &person.CreatedAt, &person.UpdatedAt); err != nil {
		return nil, err
	}
	person.Positions = []string(positions)
	person.Technologies = []string(technologies)
	return &person, nil
}
