package cmd

import (
	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	token      string
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "repozip",
	Short: "Download a GitHub repository branch as a zip archive",
	Long: `A CLI tool that resolves a GitHub repository URL, discovers its
branches, and downloads a branch snapshot as a zip archive.

Public repositories download straight from the per-branch archive URL.
Private repositories need a personal access token and the "api" strategy,
which obtains a time-limited archive location through the authenticated API.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Best-effort: a missing .env file is fine.
		_ = godotenv.Load()
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "",
		"Path to the config file (default: search standard locations)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&token, "token", "t", "",
		"GitHub personal access token (or set GITHUB_TOKEN, or configure it)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
}
