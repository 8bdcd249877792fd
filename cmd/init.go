package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/ordr/internal/config"
	"github.com/marcus/ordr/internal/db"
	"github.com/marcus/ordr/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new ordr project",
	Long:    `Creates the local .ordr directory and the SQLite order database.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getBaseDir()

		storeFlag, _ := cmd.Flags().GetString("store")
		if storeFlag != "" {
			if _, err := resolveStoreName(dir, storeFlag); err != nil {
				output.Error("%v", err)
				return err
			}
		}

		if _, err := os.Stat(db.Path(dir)); err == nil {
			output.Warning("%s already exists", filepath.Join(config.Dir, filepath.Base(db.Path(dir))))
		} else {
			database, err := db.Initialize(dir)
			if err != nil {
				output.Error("failed to initialize database: %v", err)
				return err
			}
			database.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "INITIALIZED %s/\n", config.Dir)
		}

		if storeFlag != "" {
			if err := config.SetDefaultStore(dir, storeFlag); err != nil {
				output.Error("failed to save default store: %v", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default store: %s\n", storeFlag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("store", "", "Set the default order store (console or sqlite)")
}
