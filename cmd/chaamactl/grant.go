// AngelaMos | 2026
// grant.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/subscription"
)

func grantCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-access [user-id]",
		Short: "Activate a provider without payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exit

			svc := subscription.NewService(
				subscription.NewRepository(db.DB),
				nil,
				nil,
				subscription.Config{
					Required: cfg.Subscription.Required,
					Retry:    core.DefaultRetryConfig(),
				},
				newLogger(),
			)

			state, err := svc.GrantFreeAccess(ctx, args[0])
			if err != nil {
				return fmt.Errorf("grant access to %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", state.UserID, state.StatusValue())
			return nil
		},
	}
}
