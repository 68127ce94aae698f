package cmd

import (
	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/graphio"
	"github.com/egorpavlikhin/git-correlation-graph/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the corrgraph MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents update and query the
correlation graph through standard tools.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, mcp.Deps{
			GitClient: contract.NewLocalGitClient(),
			OpenStore: graphio.NewGraphStore,
			NewReader: core.NewHistoryReader,
		})
	},
}
