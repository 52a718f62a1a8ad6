// Package cli wires the cobra command surface on top of the application
// services. Commands stay thin: flag handling and output only, with every
// decision delegated to the service layer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// Execute builds the application and runs the root command.
func Execute() error {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := slogx.WithContext(context.Background(), application.Logger)
	return newRootCmd(application).ExecuteContext(ctx)
}

func newRootCmd(application *app.Application) *cobra.Command {
	root := &cobra.Command{
		Use:           "grawsp",
		Short:         "Short-lived cloud credentials on top of an SSO session",
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("realm", "", "SSO realm to operate on")
	root.PersistentFlags().String("region", "", "region to operate in")

	root.AddCommand(
		newAuthCmd(application),
		newSyncCmd(application),
		newAccountsCmd(application),
		newCredsCmd(application),
		newConsoleCmd(application),
		newAboutCmd(),
	)

	return root
}

func realmFlag(cmd *cobra.Command, cfg app.Config) (string, error) {
	realm, _ := cmd.Flags().GetString("realm")
	if realm == "" {
		realm = cfg.DefaultRealm
	}
	if realm == "" {
		return "", errors.New("no realm provided; use --realm or set GRAWSP_REALM")
	}
	return realm, nil
}

func regionFlag(cmd *cobra.Command, cfg app.Config) string {
	region, _ := cmd.Flags().GetString("region")
	if region == "" {
		region = cfg.DefaultRegion
	}
	return region
}

// sessionName identifies chained role sessions in the provider's audit logs.
func sessionName(clientName, roleName string) string {
	userName := "operator"
	if current, err := user.Current(); err == nil && current.Username != "" {
		userName = current.Username
	}
	return fmt.Sprintf("%s-%s-%s", clientName, userName, roleName)
}
