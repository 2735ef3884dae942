package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// ProfileService keeps each Job Seeker's reusable profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// Get returns the caller's profile, or nil when none has been saved yet.
func (s *ProfileService) Get(ctx context.Context, caller models.Identity) (*models.Profile, error) {
	if err := requireRole(caller, models.RoleJobSeeker); err != nil {
		return nil, err
	}

	p, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, caller.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get profile")
	}
	return p, nil
}

// Upsert creates the caller's profile or merges fields into the stored one.
// An existing row is locked while merging so concurrent saves of different
// fields both land.
func (s *ProfileService) Upsert(ctx context.Context, caller models.Identity, fields models.ProfileFields) (*models.Profile, error) {
	if err := requireRole(caller, models.RoleJobSeeker); err != nil {
		return nil, err
	}

	var years *int
	if fields.ExperienceYears != nil {
		v, err := ParseExperienceYears(*fields.ExperienceYears)
		if err != nil {
			return nil, err
		}
		years = v
	}

	var saved *models.Profile
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		p, err := repo.GetForUpdate(ctx, caller.UserID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			p = &models.Profile{ID: uuid.NewString(), UserID: caller.UserID, Skills: []string{}}
		case err != nil:
			return errors.Wrap(err, "get profile")
		}

		mergeProfile(p, fields, years)

		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrap(err, "upsert profile")
		}
		saved = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func mergeProfile(p *models.Profile, fields models.ProfileFields, years *int) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Address, fields.Address)
	set(&p.Bio, fields.Bio)
	set(&p.Education, fields.Education)
	set(&p.DefaultCoverLetter, fields.DefaultCoverLetter)
	if fields.Skills != nil {
		p.Skills = NormalizeSkills(*fields.Skills)
	}
	if fields.ExperienceYears != nil {
		p.ExperienceYears = years
	}
}

// NormalizeSkills splits comma-separated input into trimmed, non-empty,
// de-duplicated skills, keeping first-seen order.
func NormalizeSkills(raw string) []string {
	skills := []string{}
	seen := make(map[string]struct{})

	for _, part := range strings.Split(raw, ",") {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}

	return skills
}

// ParseExperienceYears reads a non-negative whole number of years. Blank
// input clears the value.
func ParseExperienceYears(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, common.Validationf("Experience years must be a non-negative whole number")
	}
	return &v, nil
}
