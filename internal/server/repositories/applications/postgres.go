// Package applications provides the PostgreSQL-backed repository for job
// applications.
package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// UniqueJobApplicant is the constraint holding one application per
// (job, applicant) pair.
const UniqueJobApplicant = "applications_job_applicant_key"

const columns = `id, job_id, job_title, employer_id, applicant_id, name, email, phone, address,
	cover_letter, resume_url, resume_public_id, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (*models.Application, error) {
	a := &models.Application{}
	err := s.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.EmployerID, &a.ApplicantID,
		&a.Name, &a.Email, &a.Phone, &a.Address, &a.CoverLetter,
		&a.Resume.URL, &a.Resume.PublicID, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts app. A second application by the same applicant for the
// same job fails with common.ErrDuplicateApplication; the unique constraint
// decides, so concurrent submissions cannot both succeed.
func (r *PostgresRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (id, job_id, job_title, employer_id, applicant_id, name, email, phone,
			address, cover_letter, resume_url, resume_public_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.JobID, app.JobTitle, app.EmployerID, app.ApplicantID,
		app.Name, app.Email, app.Phone, app.Address, app.CoverLetter,
		app.Resume.URL, app.Resume.PublicID, app.Status, app.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, UniqueJobApplicant) {
			return common.ErrDuplicateApplication
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetByID returns the application or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// ListByEmployer returns every application addressed to employerID, newest
// first, including those whose posting no longer exists.
func (r *PostgresRepository) ListByEmployer(ctx context.Context, employerID string) ([]*models.Application, error) {
	return r.query(ctx, `SELECT `+columns+` FROM applications WHERE employer_id = $1 ORDER BY created_at DESC`, employerID)
}

// ListByApplicant returns every application submitted by applicantID, newest first.
func (r *PostgresRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error) {
	return r.query(ctx, `SELECT `+columns+` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`, applicantID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select applications: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus moves the application from one status to another. It reports
// false when the stored status was no longer from, leaving the row untouched.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n == 1, nil
}

// Delete removes the application or returns common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
