package ctl

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

func newTokenCommand(cfg *config.Config) *cobra.Command {
	var (
		userID string
		role   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a credential for a user acting in a role",
		Long: `Mint a signed credential for local development and tooling.

Without --secret the signing secret is read from the terminal; an empty
answer, or a non-interactive stdin, falls back to the configured secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := models.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q, expected %q or %q", role, models.RoleEmployer, models.RoleJobSeeker)
			}

			key := []byte(secret)
			if !cmd.Flags().Changed("secret") {
				typed, _, err := promptSecret(cmd.ErrOrStderr(), "Signing secret (empty for configured): ")
				if err != nil {
					return fmt.Errorf("read secret: %w", err)
				}
				key = typed
				if len(key) == 0 {
					key = []byte(cfg.SecretKey)
				}
			}

			token, err := auth.GenerateToken(userID, r, key, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	cmd.Flags().StringVar(&role, "role", string(models.RoleJobSeeker), `role: "Employer" or "Job Seeker"`)
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", cfg.TokenValidityDuration, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
