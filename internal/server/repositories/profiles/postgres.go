// Package profiles provides the PostgreSQL-backed repository for Job Seeker
// profiles.
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// UniqueUserID is the constraint the upsert conflicts on.
const UniqueUserID = "profiles_user_id_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectProfile = `
		SELECT id, user_id, address, bio, education, skills, experience_years, default_cover_letter, updated_at
		FROM profiles WHERE user_id = $1`

// GetByUserID returns the profile of userID or common.ErrNotFound.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.getOne(ctx, selectProfile, userID)
}

// GetForUpdate is GetByUserID that also locks the row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID string) (*models.Profile, error) {
	return r.getOne(ctx, selectProfile+` FOR UPDATE`, userID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, userID string) (*models.Profile, error) {
	p := &models.Profile{}
	var skills []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.Address, &p.Bio, &p.Education,
		&skills, &p.ExperienceYears, &p.DefaultCoverLetter, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &p.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}

	return p, nil
}

// Upsert stores p keyed by its user. An existing row keeps its id; p.ID and
// p.UpdatedAt are set from what was stored.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, address, bio, education, skills, experience_years, default_cover_letter, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT ON CONSTRAINT profiles_user_id_key DO UPDATE SET
			address = EXCLUDED.address,
			bio = EXCLUDED.bio,
			education = EXCLUDED.education,
			skills = EXCLUDED.skills,
			experience_years = EXCLUDED.experience_years,
			default_cover_letter = EXCLUDED.default_cover_letter,
			updated_at = now()
		RETURNING id, updated_at
	`

	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	encoded, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Address, p.Bio, p.Education,
		string(encoded), p.ExperienceYears, p.DefaultCoverLetter).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
