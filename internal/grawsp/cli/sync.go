package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

func newSyncCmd(application *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the realm's accounts and roles from the identity provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "sync")

			realm, err := realmFlag(cmd, application.Config)
			if err != nil {
				return err
			}

			count, err := application.Sync.Synchronize(ctx, realm, regionFlag(cmd, application.Config))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synchronized %d accounts\n", count)
			return nil
		},
	}
}
