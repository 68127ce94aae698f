package cmd

import (
	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/spf13/cobra"
)

// topCmd reports from the stored graph.
var topCmd = &cobra.Command{
	Use:   "top [repo-path]",
	Short: "Show the strongest correlations of the stored graph.",
	Long: `Print the most strongly correlated file pairs from the stored graph without
reading any Git history.

Pairs are ranked by correlation, then by the number of shared commits.
Use --min-commits to hide pairs where one file has barely changed, since a
file committed once correlates 100% with everything it was committed with.

Examples:
  # Top 25 pairs
  corrgraph top --limit 25

  # Only files with some history behind them
  corrgraph top --min-commits 5

  # Export for a spreadsheet
  corrgraph top --output csv --output-file pairs.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWithStore(core.ExecuteTop); err != nil {
			contract.LogFatal("Cannot show correlations", err)
		}
	},
}
