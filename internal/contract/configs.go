package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// Default values for configuration.
const (
	DefaultBatchSize      = 100
	MaxBatchSize          = 100000
	DefaultResultLimit    = 10
	MaxResultLimit        = 1000
	DefaultPrecision      = 2
	MaxPrecision          = 4
	DefaultMinCommits     = 1
	DefaultGraphFileName  = "correlation-graph.json"
	DefaultMaxConnections = 15
	DefaultMinCorrelation = 0.4
	DefaultClusterCommits = 2
)

// DefaultExcludedExtensions are file extensions that never take part in the graph.
var DefaultExcludedExtensions = []string{".csproj", ".sln"}

// DefaultExcludedFileNames are file names that never take part in the graph.
var DefaultExcludedFileNames = []string{"Program.cs", "package.json", "tsconfig.json"}

// DefaultExcludes are path patterns for generated or binary files that change
// alongside everything and would drown real correlations.
var DefaultExcludes = []string{
	"Cargo.lock", "go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "uv.lock",
	".min.js", ".min.css",
	".jpg", ".jpeg", ".png", ".gif", ".ico", ".mp4", ".mov", ".webm", ".mp3", ".ogg", ".pdf", ".webp",
	".DS_Store",
	"dist/", "build/", "out/", "target/", "bin/",
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	BatchSize   int
	ResultLimit int
	MinCommits  int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	Excludes           []string
	ExcludedExtensions []string
	ExcludedFileNames  []string
	ExcludeRootFiles   bool

	StoreBackend schema.StoreBackend
	StoreConnect string // Please use env var as this is plaintext
	GraphFile    string

	RelatedPath string

	ClusterMinCommits     int
	ClusterMaxConnections int
	ClusterMinCorrelation float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoPathStr string
	RelatedPath string

	// --- Fields from rootCmd.PersistentFlags() ---
	BatchSize        int    `mapstructure:"batch-size"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Exclude          string `mapstructure:"exclude"`
	ExcludeExt       string `mapstructure:"exclude-ext"`
	ExcludeName      string `mapstructure:"exclude-name"`
	ExcludeRootFiles bool   `mapstructure:"exclude-root-files"`
	Store            string `mapstructure:"store"`
	StoreConnect     string `mapstructure:"store-connect"`
	GraphFile        string `mapstructure:"graph-file"`

	// --- Fields from topCmd and relatedCmd flags ---
	MinCommits int `mapstructure:"min-commits"`

	// --- Fields from clustersCmd.Flags() ---
	ClusterMinCommits int     `mapstructure:"cluster-min-commits"`
	MaxConnections    int     `mapstructure:"max-connections"`
	MinCorrelation    float64 `mapstructure:"min-correlation"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = cloneStrings(c.Excludes)
	clone.ExcludedExtensions = cloneStrings(c.ExcludedExtensions)
	clone.ExcludedFileNames = cloneStrings(c.ExcludedFileNames)
	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	processExcludes(cfg, input)
	if err := resolveGitPath(ctx, cfg, client, input); err != nil {
		return err
	}
	if err := resolveRelatedPath(cfg, input); err != nil {
		return err
	}
	return resolveGraphFile(cfg, input)
}

// ValidateStoreConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateStoreConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.JSONBackend, schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid store backend '%s'. must be json, sqlite, mysql, postgresql", backend)
	}
	return nil
}

// ParseStoreBackend normalizes a backend name, treating empty as the JSON file backend.
func ParseStoreBackend(s string) (schema.StoreBackend, error) {
	backend := schema.StoreBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		return schema.JSONBackend, nil
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return "", fmt.Errorf("invalid store backend '%s'. must be json, sqlite, mysql, postgresql", s)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.BatchSize <= 0 || input.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be greater than 0 and cannot exceed %d (received %d)", MaxBatchSize, input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.MinCommits < 0 {
		return fmt.Errorf("min-commits cannot be negative (received %d)", input.MinCommits)
	}
	cfg.MinCommits = input.MinCommits

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.ClusterMinCommits < 0 {
		return fmt.Errorf("cluster-min-commits cannot be negative (received %d)", input.ClusterMinCommits)
	}
	if input.MaxConnections < 0 {
		return fmt.Errorf("max-connections cannot be negative (received %d)", input.MaxConnections)
	}
	if input.MinCorrelation < 0 || input.MinCorrelation > 1 {
		return fmt.Errorf("min-correlation must be between 0 and 1 (received %.2f)", input.MinCorrelation)
	}
	cfg.ClusterMinCommits = input.ClusterMinCommits
	cfg.ClusterMaxConnections = input.MaxConnections
	cfg.ClusterMinCorrelation = input.MinCorrelation

	return nil
}

// validateStoreConfig validates the graph store backend configuration.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseStoreBackend(input.Store)
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreConnect = input.StoreConnect
	return ValidateStoreConnectionString(cfg.StoreBackend, cfg.StoreConnect)
}

// processExcludes merges default and user-supplied exclusion rules.
func processExcludes(cfg *Config, input *ConfigRawInput) {
	cfg.Excludes = append(cloneStrings(DefaultExcludes), SplitList(input.Exclude)...)
	cfg.ExcludedExtensions = append(cloneStrings(DefaultExcludedExtensions), SplitList(input.ExcludeExt)...)
	cfg.ExcludedFileNames = append(cloneStrings(DefaultExcludedFileNames), SplitList(input.ExcludeName)...)
	cfg.ExcludeRootFiles = input.ExcludeRootFiles
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveGitPath resolves the Git repository root from the positional path.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	gitContextPath := absSearchPath
	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

// resolveRelatedPath normalizes the file argument of the related command.
func resolveRelatedPath(cfg *Config, input *ConfigRawInput) error {
	if input.RelatedPath == "" {
		cfg.RelatedPath = ""
		return nil
	}
	path := input.RelatedPath
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			if _, statErr := os.Stat(abs); statErr == nil {
				path = abs
			}
		}
	}
	normalized, err := NormalizeRepoPath(cfg.RepoPath, path)
	if err != nil {
		return err
	}
	cfg.RelatedPath = normalized
	return nil
}

// resolveGraphFile picks the graph file for the JSON backend and the database
// file for SQLite when none was given.
func resolveGraphFile(cfg *Config, input *ConfigRawInput) error {
	switch cfg.StoreBackend {
	case schema.JSONBackend:
		cfg.GraphFile = input.GraphFile
		if cfg.GraphFile == "" {
			cfg.GraphFile = GetGraphFilePath(cfg.RepoPath)
		}
		abs, err := filepath.Abs(cfg.GraphFile)
		if err != nil {
			return err
		}
		cfg.GraphFile = abs
	case schema.SQLiteBackend:
		if cfg.StoreConnect == "" {
			cfg.StoreConnect = GetGraphDBFilePath()
		}
	}
	return nil
}
