package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/service"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

func newAuthCmd(application *app.Application) *cobra.Command {
	var (
		startURL   string
		retryAfter time.Duration
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize against the realm's SSO start URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "auth")
			cfg := application.Config

			realm, err := realmFlag(cmd, cfg)
			if err != nil {
				return err
			}

			if startURL == "" {
				startURL = cfg.StartURL
			}
			if startURL == "" {
				return errors.New("no start URL provided; use --start-url or set GRAWSP_START_URL")
			}

			// Clear out stale cache rows before a fresh session.
			_ = application.Housekeeping.RunOnce(ctx)

			_, err = application.Authorizer.Authorize(ctx, service.AuthorizeParams{
				Realm:      realm,
				StartURL:   startURL,
				Region:     regionFlag(cmd, cfg),
				ClientName: cfg.ClientName,
				RetryAfter: retryAfter,
				Timeout:    timeout,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&startURL, "start-url", "", "SSO start URL for the realm")
	cmd.Flags().DurationVar(&retryAfter, "retry-after", application.Config.RetryAfter,
		"how long to wait between authorization checks")
	cmd.Flags().DurationVar(&timeout, "timeout", application.Config.Timeout,
		"how long to wait before aborting the authorization")

	return cmd
}
