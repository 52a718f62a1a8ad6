package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/service"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

func newCredsCmd(application *app.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creds",
		Aliases: []string{"credentials"},
		Short:   "Resolve, list and export cached credentials",
	}

	cmd.AddCommand(
		newCredsResolveCmd(application),
		newCredsListCmd(application),
		newCredsConfigureCmd(application),
	)
	return cmd
}

func newCredsResolveCmd(application *app.Application) *cobra.Command {
	var intermediary string

	cmd := &cobra.Command{
		Use:   "resolve <account> <role>",
		Short: "Resolve a short-lived credential for an account and role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "creds resolve")
			cfg := application.Config

			realm, err := realmFlag(cmd, cfg)
			if err != nil {
				return err
			}

			// The identifier may be a number, a name or a pattern; resolution
			// precedence lives in the account service.
			account, err := application.Accounts.Find(ctx, realm, args[0])
			if err != nil {
				return err
			}

			credential, err := application.Credentials.Resolve(ctx, service.ResolveParams{
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

			// Shell-evalable so `eval $(grawsp creds resolve ...)` works.
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "export AWS_ACCESS_KEY_ID=%s\n", credential.AccessKeyID)
			fmt.Fprintf(out, "export AWS_SECRET_ACCESS_KEY=%s\n", credential.SecretAccessKey)
			fmt.Fprintf(out, "export AWS_SESSION_TOKEN=%s\n", credential.SessionToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&intermediary, "from-role", "",
		"intermediary role to assume before the target role")
	return cmd
}

func newCredsListCmd(application *app.Application) *cobra.Command {
	var showExpired bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "creds list")

			realm, err := realmFlag(cmd, application.Config)
			if err != nil {
				return err
			}

			credentials, err := application.Credentials.List(ctx, realm, showExpired)
			if err != nil {
				return err
			}

			accounts, err := application.Accounts.Search(ctx, realm, "")
			if err != nil {
				return err
			}
			namesByID := make(map[string]string, len(accounts))
			for _, account := range accounts {
				namesByID[account.ID] = account.Name
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			w.Write([]byte("ACCOUNT\tROLE\tACCESS KEY ID\tEXPIRES\n"))
			for _, credential := range credentials {
				w.Write([]byte(namesByID[credential.AccountID] + "\t" +
					credential.RoleName + "\t" + credential.AccessKeyID + "\t" +
					credential.ExpiresAt.Format(time.RFC3339) + "\n"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showExpired, "expired", false, "include expired credentials")
	return cmd
}

func newCredsConfigureCmd(application *app.Application) *cobra.Command {
	var (
		path           string
		defaultAccount string
		defaultRole    string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write cached credentials to the AWS CLI credentials file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := slogx.WithCommand(cmd.Context(), "creds configure")

			realm, err := realmFlag(cmd, application.Config)
			if err != nil {
				return err
			}

			if path == "" {
				path = application.Config.CredentialsFile
			}

			written, err := application.Export.Configure(ctx, service.ExportParams{
				Realm:          realm,
				Path:           path,
				DefaultAccount: defaultAccount,
				DefaultRole:    defaultRole,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d profiles to %s\n", written, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "credentials file path")
	cmd.Flags().StringVar(&defaultAccount, "default-account", "",
		"account whose credential becomes the default profile")
	cmd.Flags().StringVar(&defaultRole, "default-role", "",
		"role whose credential becomes the default profile")
	return cmd
}
