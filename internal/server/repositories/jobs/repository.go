package jobs

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetForUpdate(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id, employerID string) error
}
