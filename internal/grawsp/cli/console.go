package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/service"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

func newConsoleCmd(application *app.Application) *cobra.Command {
	var intermediary string

	cmd := &cobra.Command{
		Use:   "console <account> <role>",
		Short: "Open the cloud console signed in as a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "console")
			cfg := application.Config

			realm, err := realmFlag(cmd, cfg)
			if err != nil {
				return err
			}

			account, err := application.Accounts.Find(ctx, realm, args[0])
			if err != nil {
				return err
			}

			signinURL, err := application.Console.Open(ctx, service.ResolveParams{
				Realm:            realm,
				Region:           regionFlag(cmd, cfg),
				Account:          account.Name,
				Role:             args[1],
				SessionName:      sessionName(cfg.ClientName, args[1]),
				IntermediaryRole: intermediary,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signinURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&intermediary, "from-role", "",
		"intermediary role to assume before the target role")
	return cmd
}
