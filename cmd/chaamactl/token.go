// AngelaMos | 2026
// token.go

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josealexandro/chaama/internal/auth"
)

func tokenCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Access tokens for local development",
	}

	var subject, role string

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint an access token signed with the configured private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" {
				return errors.New("--sub is required")
			}
			if role != "user" && role != "admin" {
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			manager, err := auth.NewJWTManager(cfg.JWT)
			if err != nil {
				return err
			}

			token, err := manager.CreateAccessToken(subject, role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "sub", "", "account id the token is issued for")
	issue.Flags().StringVarP(&role, "role", "r", "user", "role claim (user or admin)")

	cmd.AddCommand(issue)
	return cmd
}
