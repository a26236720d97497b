// AngelaMos | 2026
// sweep.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josealexandro/chaama/internal/campaign"
	"github.com/josealexandro/chaama/internal/core"
)

func sweepCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-campaigns",
		Short: "Expire every ad campaign whose window has closed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger()

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exit

			redis, err := core.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer redis.Close() //nolint:errcheck // process exit

			svc := campaign.NewService(campaign.NewRepository(db.DB), cfg.Campaigns.PlanDays, logger)
			sweeper := campaign.NewSweeper(svc, redis, cfg.Campaigns.SweepInterval, logger)

			expired, skipped, err := sweeper.SweepOnce(ctx)
			if err != nil {
				return err
			}
			if skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "another instance holds the sweep lease, nothing done")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "expired %d campaign(s)\n", expired)
			return nil
		},
	}
}
