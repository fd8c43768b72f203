package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/crop-advisor/internal/domain/admin"
)

func (c *cli) tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token for the history endpoints",
		Long: `Signs a token with ADMIN_JWT_SECRET (or admin.secret in the config file).

Example:
  curl -H "Authorization: Bearer $(cropctl token --subject ops)" localhost:8080/api/v1/admin/history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := admin.NewService(admin.Config{Secret: c.cfg.Admin.Secret, TokenTTL: c.cfg.Admin.TokenTTL}, c.logger)
			token, err := svc.IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to config)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
