package main

import (
	"encoding/json"
	"fmt"

	"github.com/fjod/storefront/internal/auth"
	"github.com/spf13/cobra"
)

// NewTokenCommand issues a bearer token offline with the configured secret.
func NewTokenCommand(root *RootOptions) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token",
		Example: `  storefront token --payload '{"email":"admin@example.com"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			claims := map[string]interface{}{}
			if err := json.Unmarshal([]byte(payload), &claims); err != nil {
				return fmt.Errorf("payload must be a JSON object: %w", err)
			}

			token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "token claims as a JSON object")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}
