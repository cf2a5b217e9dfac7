package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/repozip/repozip/domain"
	"github.com/repozip/repozip/internal"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var branchesCmd = &cobra.Command{
	Use:   "branches <repository-url>",
	Short: "List the branches of the given repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranches,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := domain.ParseRepositoryURL(args[0])
	if err != nil {
		return err
	}

	container := dig.New()
	if registerErr := internal.RegisterProviders(container, cfg); registerErr != nil {
		return fmt.Errorf("failed to assemble the pipeline: %w", registerErr)
	}

	return container.Invoke(func(lister domain.BranchLister) error {
		branches, listErr := lister.ListBranches(cmd.Context(), repo, cfg.Token)
		if listErr != nil {
			return fmt.Errorf("failed to list branches for %s: %w", repo, listErr)
		}

		if len(branches) == 0 {
			fmt.Printf("%s has no branches\n", repo)
			return nil
		}

		selected, _ := domain.DefaultBranch(branches)
		for _, branch := range branches {
			marker := " "
			if branch.Name == selected {
				marker = "*"
			}
			sha := branch.CommitSHA
			if len(sha) > 7 {
				sha = sha[:7]
			}
			fmt.Printf("%s %-40s %s\n", marker, branch.Name, sha)
		}
		return nil
	})
}
