package applications

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id string, from, to models.Status) (bool, error)
	Delete(ctx context.Context, id string) error
}
