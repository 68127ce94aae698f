// Package cmd defines the command-line interface for corrgraph.
package cmd

import (
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the graph subcommands to the parent graph command
	graphCmd.AddCommand(graphStatusCmd)
	graphCmd.AddCommand(graphClearCmd)
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("exclude-ext", "", "Comma-separated list of extensions to ignore, added to the defaults")
	rootCmd.PersistentFlags().String("exclude-name", "", "Comma-separated list of file names to ignore, added to the defaults")
	rootCmd.PersistentFlags().Bool("exclude-root-files", true, "Ignore files at the repository root")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("min-commits", contract.DefaultMinCommits, "Skip pairs whose less active file has fewer commits than this")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for correlation percentages")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store", string(schema.JSONBackend), "Graph store: json or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("store-connect", "", "Database connection string for sqlite/mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("graph-file", "", "Graph file for the json store (default <repo-root>/"+contract.DefaultGraphFileName+")")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Int("batch-size", contract.DefaultBatchSize, "Maximum number of commits to process in this run")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of clustersCmd to Viper. Its --min-commits shadows the
	// root flag and is bound when the command runs.
	clustersCmd.Flags().Int("min-commits", contract.DefaultClusterCommits, "Minimum commits for a file to join a cluster")
	clustersCmd.Flags().Int("max-connections", contract.DefaultMaxConnections, "Skip files linked to more than this many files (0 = no limit)")
	clustersCmd.Flags().Float64("min-correlation", contract.DefaultMinCorrelation, "Minimum correlation (0..1) for two files to be linked")
	for _, name := range []string{"max-connections", "min-correlation"} {
		if err := viper.BindPFlag(name, clustersCmd.Flags().Lookup(name)); err != nil {
			contract.LogFatal("Error binding clusters flags", err)
		}
	}

	// Bind all flags of graphMigrateCmd to Viper
	graphMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(graphMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding graph migrate flags", err)
	}
}
