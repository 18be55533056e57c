package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"liyu1981.xyz/device-health-service/pkg/auth"
)

var (
	tokenCentroID string
	tokenSubject  string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a centro admin token for the /v1/centri API",
		RunE: func(cmd *cobra.Command, args []string) error {
			authenticator, err := auth.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}

			token, err := authenticator.Issue(tokenCentroID, tokenSubject)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenCentroID, "centro-id", "", "centro the token administers")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "token subject, usually the admin's email")
	_ = tokenCmd.MarkFlagRequired("centro-id")
}
