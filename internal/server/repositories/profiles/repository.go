package profiles

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetForUpdate(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}
