package cmd

import (
	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/spf13/cobra"
)

// relatedCmd lists the neighbours of one file.
var relatedCmd = &cobra.Command{
	Use:   "related <file> [repo-path]",
	Short: "Show the files most often committed together with a file.",
	Long: `Print the files that share commits with the given file, strongest first.

Useful before changing a file: the list shows what else usually has to change
with it.

Examples:
  # What changes with the router?
  corrgraph related internal/http/router.go

  # Same, for another repository
  corrgraph related src/App.tsx ~/src/frontend`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(_ *cobra.Command, args []string) error {
		input.RelatedPath = args[0]
		return sharedSetup(rootCtx, args, 1)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWithStore(core.ExecuteRelated); err != nil {
			contract.LogFatal("Cannot show related files", err)
		}
	},
}
