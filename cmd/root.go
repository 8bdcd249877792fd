package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/marcus/ordr/internal/workdir"
	"github.com/spf13/cobra"
)

var (
	versionStr string
	baseDir    string
)

// SetVersion sets the version string
func SetVersion(v string) {
	versionStr = v
}

var rootCmd = &cobra.Command{
	Use:   "ordr",
	Short: "Create orders behind feature decisions",
	Long: `ordr - create orders whose behavior is chosen by feature decisions.

Raw toggles (environment, .ordr/config.json, built-in defaults) are resolved
into named decisions once per operation; the decisions select which
order-creation variant runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = "debug"
		}
		slog.SetDefault(newLogger(level, format))
		return initBaseDir(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "features", Title: "Feature Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")

	rootCmd.PersistentFlags().String("dir", "", "Project directory (default: nearest directory containing .ordr)")
	rootCmd.PersistentFlags().Bool("debug", false, "Shorthand for --log-level=debug")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// newLogger builds a stderr logger for the given level and format.
func newLogger(levelName, format string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func initBaseDir(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		baseDir = dir
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}
	baseDir = workdir.ResolveBaseDir(wd)
	slog.Debug("workdir: resolved", "cwd", wd, "base", baseDir)
	return nil
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}
