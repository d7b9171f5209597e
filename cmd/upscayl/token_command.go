package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/service/auth"
	"github.com/spf13/cobra"
)

type tokenResult struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the gateway's upscale routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Auth.Enabled() {
				return errors.New("auth.jwt_secret is not configured; the gateway does not require tokens")
			}

			tokens, err := auth.NewTokenService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("create token service: %w", err)
			}

			token, err := tokens.GenerateToken(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			claims, err := tokens.ValidateToken(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("verify token: %w", err)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, tokenResult{Token: token, Subject: claims.Subject, ExpiresAt: claims.ExpiresAt})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
