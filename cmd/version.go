package cmd

import (
	"fmt"

	"github.com/marcus/ordr/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprint(cmd.OutOrStdout(), versionStr)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ordr version %s\n", versionStr)
		if version.IsDevelopmentVersion(versionStr) {
			return
		}
		if install := version.UpdateCommand(versionStr); install != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Reinstall: %s\n", install)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version")
}
