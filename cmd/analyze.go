package cmd

import (
	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd processes the next batch of commits.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Process new commits and show the strongest file correlations.",
	Long: `Read the next batch of unprocessed commits, update the correlation graph and
save it, then print the strongest correlations.

Every run resumes from the last processed commit, so large histories can be
worked through in several runs. Running again with nothing new is cheap and
leaves the stored graph untouched.

The correlation of two files is the number of commits that touched both,
divided by the commit count of the less active file. A value of 100% means
the less active file never changed without the other.

Examples:
  # Process up to 100 commits of the current repository
  corrgraph analyze

  # Work through a long history in bigger steps
  corrgraph analyze --batch-size 5000 ~/src/project

  # Keep the graph in SQLite instead of a JSON file
  corrgraph analyze --store sqlite --store-connect ~/.corrgraph.db`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWithStore(core.ExecuteAnalyze); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
