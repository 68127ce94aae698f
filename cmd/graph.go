package cmd

import (
	"fmt"

	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/graphio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateSetup loads minimal configuration needed for migrate operations.
// It does NOT resolve a repository or open a store, so migrations can run on
// a fresh database from anywhere.
func migrateSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseStoreBackend(viper.GetString("store"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("store-connect")
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr
	return nil
}

// graphCmd focused on graph store management.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Manage the stored correlation graph",
	Long: `Inspect, export and reset the stored correlation graph.

Supported stores: JSON file (default, optionally zstd-compressed with a .zst
suffix), SQLite, MySQL, PostgreSQL. SQL stores keep the graphs of many
repositories side by side, keyed by repository root.

Subcommands:
  status  - Show what the store holds
  clear   - Forget the graph of a repository
  export  - Write nodes and edges to Parquet files
  migrate - Apply SQL schema migrations`,
}

// graphStatusCmd shows store status.
var graphStatusCmd = &cobra.Command{
	Use:   "status [repo-path]",
	Short: "Display graph store statistics and connection details",
	Long: `Show the store backend, its size and the totals of the stored graph:
files, edges, commits processed and the last processed commit.

Examples:
  corrgraph graph status
  CORRGRAPH_STORE=sqlite corrgraph graph status ~/src/project`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := graphio.NewGraphStore(cfg)
		if err != nil {
			contract.LogFatal("Failed to open graph store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get graph status", err)
		}
		graphio.PrintStoreStatus(status)
	},
}

// graphClearCmd removes the stored graph.
var graphClearCmd = &cobra.Command{
	Use:   "clear [repo-path]",
	Short: "Remove the stored graph of a repository",
	Long: `Delete the stored graph so the next analyze run starts from the first commit.

Use this when:
- Repository history was rewritten (rebase, force push)
- Exclusion rules changed and old counts should not linger

For JSON: Deletes the graph file
For SQL stores: Deletes the rows of this repository only

Examples:
  corrgraph graph clear
  CORRGRAPH_STORE=mysql CORRGRAPH_STORE_CONNECT="..." corrgraph graph clear`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := graphio.NewGraphStore(cfg)
		if err != nil {
			contract.LogFatal("Failed to open graph store", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear graph", err)
		}
		fmt.Printf("Graph cleared: %s\n", store.Location())
	},
}

// graphExportCmd exports the stored graph to Parquet.
var graphExportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export the stored graph to Parquet files",
	Long: `Write the stored graph as two Parquet files, one row per file and one row
per edge with its correlation, for use in notebooks and query engines.

--output-file X writes X.nodes.parquet and X.edges.parquet.

Examples:
  corrgraph graph export --output-file coupling
  duckdb -c "SELECT * FROM 'coupling.edges.parquet' ORDER BY correlation DESC"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWithStore(core.ExecuteGraphExport); err != nil {
			contract.LogFatal("Failed to export graph", err)
		}
	},
}

// graphMigrateCmd runs schema migrations.
var graphMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage SQL schema migrations for the graph store",
	Long: `Run database migrations for the SQL graph stores.

By default, migrates to the latest version. Use --target-version to migrate
to a specific version or roll back (0 drops every graph table).

Examples:
  # Migrate to latest version
  corrgraph graph migrate --store sqlite

  # Roll back everything
  corrgraph graph migrate --store postgresql --store-connect "host=... dbname=..." --target-version 0`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return migrateSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := graphio.Migrate(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
