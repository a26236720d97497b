// AngelaMos | 2026
// keys.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josealexandro/chaama/internal/auth"
)

func keysCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the ES256 signing keys",
	}

	var privatePath, publicPath string

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a new ES256 key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if privatePath == "" || publicPath == "" {
				cfg, err := load()
				if err != nil {
					return err
				}
				if privatePath == "" {
					privatePath = cfg.JWT.PrivateKeyPath
				}
				if publicPath == "" {
					publicPath = cfg.JWT.PublicKeyPath
				}
			}

			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}
	generate.Flags().StringVar(&privatePath, "private", "", "private key output path")
	generate.Flags().StringVar(&publicPath, "public", "", "public key output path")

	cmd.AddCommand(generate)
	return cmd
}
