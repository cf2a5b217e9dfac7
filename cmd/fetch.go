package cmd

import (
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/repozip/repozip/application"
	"github.com/repozip/repozip/config"
	"github.com/repozip/repozip/domain"
	"github.com/repozip/repozip/internal"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	branchFlag   string
	strategyFlag string
	outputFlag   string
	privateFlag  bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var fetchCmd = &cobra.Command{
	Use:   "fetch <repository-url>",
	Short: "Download a branch archive of the given repository",
	Long: `Resolve the repository URL, discover its branches, and download the
selected branch (or the default one) as a zip archive.

Examples:
  repozip fetch https://github.com/octocat/Hello-World
  repozip fetch --branch dev https://github.com/acme/widgets
  repozip fetch --strategy api -t ghp_xxx https://github.com/acme/private-repo`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	fetchCmd.Flags().StringVarP(
		&branchFlag, "branch", "b", "",
		"Branch to download (default: main, master, or the first branch)",
	)
	fetchCmd.Flags().StringVar(
		&strategyFlag, "strategy", "",
		"Retrieval strategy: direct or api",
	)
	fetchCmd.Flags().StringVarP(
		&outputFlag, "output", "o", "",
		"Directory to save the archive into",
	)
	fetchCmd.Flags().BoolVar(
		&privateFlag, "private", false,
		"Treat the repository as private (requires a token)",
	)
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container := dig.New()
	if registerErr := internal.RegisterProviders(container, cfg); registerErr != nil {
		return fmt.Errorf("failed to assemble the pipeline: %w", registerErr)
	}

	return container.Invoke(func(
		ctrl *application.Controller,
		prober domain.RepositoryProber,
	) error {
		return fetch(cmd, ctrl, prober, cfg, args[0])
	})
}

func fetch(
	cmd *cobra.Command,
	ctrl *application.Controller,
	prober domain.RepositoryProber,
	cfg *config.Config,
	repoURL string,
) error {
	ctx := cmd.Context()
	ctrl.SetCredential(cfg.Token)
	ctrl.SetPrivate(privateFlag)

	// Probe the privacy flag up front so the credential check can fire before
	// any archive request. Probe failures are not fatal; the remote's answer
	// during the download is authoritative.
	if repo, parseErr := domain.ParseRepositoryURL(repoURL); parseErr == nil && !privateFlag {
		if private, probeErr := prober.IsPrivate(ctx, repo, cfg.Token); probeErr != nil {
			logger.Debugf("Privacy probe failed: %v", probeErr)
		} else if private {
			logger.Info("Repository is private; a credential is required")
			ctrl.SetPrivate(true)
		}
	}

	ctrl.SetRepositoryURL(ctx, repoURL)
	snap := ctrl.Snapshot()
	if snap.Phase == application.PhaseFailed {
		return fmt.Errorf("failed to resolve branches: %s", snap.ErrorMessage)
	}

	if branchFlag != "" {
		ctrl.SelectBranch(branchFlag)
	} else if snap.SelectedBranch != "" {
		logger.Infof("Using branch %q", snap.SelectedBranch)
	}

	bar := pb.Full.Start64(0)
	ctrl.SetProgressObserver(func(p domain.Progress) {
		if p.Indeterminate {
			bar.SetTotal(p.BytesReceived)
		} else {
			bar.SetTotal(p.TotalBytes)
		}
		bar.SetCurrent(p.BytesReceived)
	})

	outcome, started := ctrl.StartDownload(ctx)
	bar.Finish()
	if !started {
		return nil
	}
	if !outcome.Success {
		return fmt.Errorf("download failed (%s): %s", outcome.FailureKind, outcome.Message)
	}

	fmt.Printf("Saved %s (%d bytes)\n", outcome.Filename, outcome.ByteCount)
	return nil
}

// loadConfig merges the config file with CLI flag and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()

	path := configPath
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.Debugf("Using config file: %s", path)
	}

	if token != "" {
		cfg.Token = token
	} else if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}
	if strategyFlag != "" {
		cfg.Strategy = strategyFlag
	}
	if outputFlag != "" {
		cfg.OutputDir = outputFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
