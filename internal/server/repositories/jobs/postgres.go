// Package jobs provides the PostgreSQL-backed repository for job postings.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

const columns = `id, employer_id, title, description, category, country, city, location,
	fixed_salary, salary_from, salary_to, posted_on, expired`

// PostgresRepository implements job storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*models.Job, error) {
	job := &models.Job{}
	err := s.Scan(&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.Category,
		&job.Country, &job.City, &job.Location,
		&job.FixedSalary, &job.SalaryFrom, &job.SalaryTo, &job.PostedOn, &job.Expired)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Create inserts a new posting. ID and PostedOn must already be set.
func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, employer_id, title, description, category, country, city, location,
			fixed_salary, salary_from, salary_to, posted_on, expired)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.Category, job.Country, job.City, job.Location,
		job.FixedSalary, job.SalaryFrom, job.SalaryTo, job.PostedOn, job.Expired)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetByID returns the posting or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM jobs WHERE id = $1`, id)
}

// GetForUpdate is GetByID that also locks the row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM jobs WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, id string) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

// List returns postings matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	var (
		where []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if !filter.IncludeExpired {
		where = append(where, "expired = false")
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	// City and country match case-insensitively but literally.
	if filter.City != "" {
		add("city ILIKE $%d", escapeLike(filter.City))
	}
	if filter.Country != "" {
		add("country ILIKE $%d", escapeLike(filter.Country))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	query := `SELECT ` + columns + ` FROM jobs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY posted_on DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	return r.query(ctx, query, args...)
}

// ListByEmployer returns every posting of employerID, expired included, newest first.
func (r *PostgresRepository) ListByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	return r.query(ctx, `SELECT `+columns+` FROM jobs WHERE employer_id = $1 ORDER BY posted_on DESC`, employerID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Update writes the mutable fields of job. Owner and posted_on are never
// touched; the owner is also part of the WHERE clause.
func (r *PostgresRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			title = $3, description = $4, category = $5, country = $6, city = $7, location = $8,
			fixed_salary = $9, salary_from = $10, salary_to = $11, expired = $12
		WHERE id = $1 AND employer_id = $2
	`

	res, err := r.db.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.Category, job.Country, job.City, job.Location,
		job.FixedSalary, job.SalaryFrom, job.SalaryTo, job.Expired)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return exactlyOne(res)
}

// Delete removes the posting if it belongs to employerID. Applications that
// reference it are left untouched.
func (r *PostgresRepository) Delete(ctx context.Context, id, employerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND employer_id = $2`, id, employerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return exactlyOne(res)
}

func exactlyOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
