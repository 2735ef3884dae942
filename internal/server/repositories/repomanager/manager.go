package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Jobs(db dbx.DBTX) jobs.Repository
	Applications(db dbx.DBTX) applications.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
