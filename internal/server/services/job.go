package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// Salary bounds and listing page sizes.
const (
	MinSalary        = 1000
	MaxSalary        = 999999999
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// JobService owns job postings. Only Employers author them and only the
// owning Employer may change or delete one; reads are public.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager) *JobService {
	return &JobService{db: db, repomanager: m}
}

// Create stores a new posting owned by caller.
func (s *JobService) Create(ctx context.Context, caller models.Identity, in models.JobInput) (*models.Job, error) {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:          uuid.NewString(),
		EmployerID:  caller.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Country:     strings.TrimSpace(in.Country),
		City:        strings.TrimSpace(in.City),
		Location:    strings.TrimSpace(in.Location),
		FixedSalary: in.FixedSalary,
		SalaryFrom:  in.SalaryFrom,
		SalaryTo:    in.SalaryTo,
		PostedOn:    time.Now().UTC(),
	}

	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := s.repomanager.Jobs(s.db).Create(ctx, job); err != nil {
		return nil, errors.Wrap(err, "create job")
	}

	return job, nil
}

// List returns postings matching filter, newest first. Expired postings are
// left out unless asked for.
func (s *JobService) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Category != "" && !models.IsCategory(filter.Category) {
		return nil, common.Validationf("Unknown category %q", filter.Category)
	}

	jobs, err := s.repomanager.Jobs(s.db).List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	return jobs, nil
}

// ListMine returns every posting of the calling Employer, expired included.
func (s *JobService) ListMine(ctx context.Context, caller models.Identity) ([]*models.Job, error) {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return nil, err
	}

	jobs, err := s.repomanager.Jobs(s.db).ListByEmployer(ctx, caller.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "list employer jobs")
	}
	return jobs, nil
}

// Get returns one posting.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, jobLookupError(err)
	}
	return job, nil
}

// Update applies patch to the caller's posting. The row is locked for the
// duration so concurrent patches do not interleave their merges.
func (s *JobService) Update(ctx context.Context, caller models.Identity, id string, patch models.JobPatch) (*models.Job, error) {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return nil, err
	}

	var updated *models.Job
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jobs(tx)

		job, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return jobLookupError(err)
		}
		if job.EmployerID != caller.UserID {
			return common.Forbiddenf("You are not allowed to update this job")
		}

		applyPatch(job, patch)
		if err := validateJob(job); err != nil {
			return err
		}

		if err := repo.Update(ctx, job); err != nil {
			return errors.Wrap(err, "update job")
		}
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the caller's posting. Applications referencing it stay.
func (s *JobService) Delete(ctx context.Context, caller models.Identity, id string) error {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return err
	}

	repo := s.repomanager.Jobs(s.db)

	job, err := repo.GetByID(ctx, id)
	if err != nil {
		return jobLookupError(err)
	}
	if job.EmployerID != caller.UserID {
		return common.Forbiddenf("You are not allowed to delete this job")
	}

	if err := repo.Delete(ctx, id, caller.UserID); err != nil {
		return jobLookupError(err)
	}
	return nil
}

func jobLookupError(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFoundf("Job not found")
	}
	return errors.Wrap(err, "get job")
}

// applyPatch merges patch into job. A bound of a ranged salary is merged into
// the stored range; naming the other salary form switches forms, dropping the
// stored one.
func applyPatch(job *models.Job, patch models.JobPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&job.Title, patch.Title)
	set(&job.Description, patch.Description)
	set(&job.Category, patch.Category)
	set(&job.Country, patch.Country)
	set(&job.City, patch.City)
	set(&job.Location, patch.Location)

	applySalaryPatch(job, patch)
	if patch.Expired != nil {
		job.Expired = *patch.Expired
	}
}

func applySalaryPatch(job *models.Job, patch models.JobPatch) {
	ranged := patch.SalaryFrom != nil || patch.SalaryTo != nil

	switch {
	case !patch.HasSalary():
		return
	case patch.FixedSalary != nil && ranged:
		// Both forms named; left for validation to reject.
		job.FixedSalary, job.SalaryFrom, job.SalaryTo = patch.FixedSalary, patch.SalaryFrom, patch.SalaryTo
	case patch.FixedSalary != nil:
		job.FixedSalary, job.SalaryFrom, job.SalaryTo = patch.FixedSalary, nil, nil
	case job.FixedSalary != nil:
		job.FixedSalary, job.SalaryFrom, job.SalaryTo = nil, patch.SalaryFrom, patch.SalaryTo
	default:
		if patch.SalaryFrom != nil {
			job.SalaryFrom = patch.SalaryFrom
		}
		if patch.SalaryTo != nil {
			job.SalaryTo = patch.SalaryTo
		}
	}
}

func validateJob(job *models.Job) error {
	required := []struct {
		value, name string
	}{
		{job.Title, "title"},
		{job.Description, "description"},
		{job.Category, "category"},
		{job.Country, "country"},
		{job.City, "city"},
		{job.Location, "location"},
	}
	for _, f := range required {
		if f.value == "" {
			return common.Validationf("Please provide %s", f.name)
		}
	}

	if !models.IsCategory(job.Category) {
		return common.Validationf("Unknown category %q", job.Category)
	}

	return validateSalary(job.FixedSalary, job.SalaryFrom, job.SalaryTo)
}

// validateSalary enforces that exactly one salary form is complete.
func validateSalary(fixed, from, to *int64) error {
	ranged := from != nil || to != nil

	switch {
	case fixed == nil && !ranged:
		return common.Validationf("Please provide either a fixed salary or a ranged salary")
	case fixed != nil && ranged:
		return common.Validationf("Cannot enter fixed and ranged salary together")
	case fixed != nil:
		return checkSalaryBounds("fixedSalary", *fixed)
	case from == nil || to == nil:
		return common.Validationf("Please provide both salaryFrom and salaryTo")
	}

	if err := checkSalaryBounds("salaryFrom", *from); err != nil {
		return err
	}
	if err := checkSalaryBounds("salaryTo", *to); err != nil {
		return err
	}
	if *from > *to {
		return common.Validationf("salaryFrom cannot be greater than salaryTo")
	}
	return nil
}

func checkSalaryBounds(name string, v int64) error {
	if v < MinSalary || v > MaxSalary {
		return common.Validationf("%s must be between %d and %d", name, MinSalary, MaxSalary)
	}
	return nil
}
