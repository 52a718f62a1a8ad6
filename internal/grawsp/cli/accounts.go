package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

func newAccountsCmd(application *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts [pattern]",
		Short: "List the realm's accounts, optionally filtered by pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "accounts")

			realm, err := realmFlag(cmd, application.Config)
			if err != nil {
				return err
			}

			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}

			accounts, err := application.Accounts.Search(ctx, realm, pattern)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			w.Write([]byte("NUMBER\tNAME\tEMAIL\tSSO ROLES\n"))
			for _, account := range accounts {
				roles, err := application.Accounts.Roles(ctx, account.ID)
				if err != nil {
					return err
				}

				names := make([]string, len(roles))
				for i, role := range roles {
					names[i] = role.Name
				}

				w.Write([]byte(account.Number + "\t" + account.Name + "\t" +
					account.Email + "\t" + strings.Join(names, ",") + "\n"))
			}
			return nil
		},
	}
}
