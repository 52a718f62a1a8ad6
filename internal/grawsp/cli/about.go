package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/app"
)

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show information about this program",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grawsp %s\n", app.BuildVersion)
			fmt.Fprintln(out, "Apache License Version 2.0")
			return nil
		},
	}
}
