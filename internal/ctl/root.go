// Package ctl implements jobboardctl, the operator tool of the job board.
package ctl

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/jobboard/internal/server/config"
)

// NewRootCommand builds the jobboardctl command tree. cfg supplies flag
// defaults.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "jobboardctl",
		Short: "Operate a job board installation",
		Long: `jobboardctl applies database migrations and mints development
credentials for a job board installation.

Defaults come from the JOBBOARD_* environment variables.

Examples:
  jobboardctl migrate --dsn postgres://localhost/jobboard
  jobboardctl token --user 42 --role Employer`,
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand(cfg), newTokenCommand(cfg))
	return root
}
