package cmd

import (
	"fmt"

	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// clustersCmd groups strongly correlated files.
var clustersCmd = &cobra.Command{
	Use:   "clusters [repo-path]",
	Short: "Group files that are strongly correlated with each other.",
	Long: `Find groups of files linked by strong correlations in the stored graph.

Files with too little history (--min-commits) and hub files linked to too many
others (--max-connections) are left out, then files whose correlation reaches
--min-correlation are joined into clusters.

Examples:
  # Default thresholds
  corrgraph clusters

  # Only very tight groups
  corrgraph clusters --min-correlation 0.8 --min-commits 5`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlag("cluster-min-commits", cmd.Flags().Lookup("min-commits")); err != nil {
			return fmt.Errorf("failed to bind --min-commits: %w", err)
		}
		return sharedSetup(rootCtx, args, 0)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWithStore(core.ExecuteClusters); err != nil {
			contract.LogFatal("Cannot build clusters", err)
		}
	},
}
