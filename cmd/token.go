package main

import (
	"fmt"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/web"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"time"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

// tokenCmd signs a session token locally, for development and smoke tests
// without the identity provider.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed session token for an e-mail address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tokenEmail == "" {
			return errors.New("--email is required")
		}

		cfg := config.Get()
		token, err := web.IssueToken([]byte(cfg.Server.JWTSecret), tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user e-mail")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
