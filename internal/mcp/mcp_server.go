// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Deps are the collaborators the tool handlers need.
type Deps struct {
	// GitClient resolves repo_path arguments to repository roots.
	GitClient contract.GitClient
	// OpenStore opens the graph store for a configuration.
	OpenStore func(cfg *contract.Config) (contract.GraphStore, error)
	// NewReader builds the history reader used by analyze_repository.
	NewReader func(cfg *contract.Config) contract.HistoryReader
}

// NewMCPServer initializes and configures the corrgraph MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Git Correlation Graph Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Process the next batch of unprocessed commits and update the persisted correlation graph."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's repository if not specified).")),
		mcp.WithNumber("batch_size", mcp.Description("Maximum number of commits to process in this call.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: get_top_correlations ---
	s.AddTool(mcp.NewTool("get_top_correlations",
		mcp.WithDescription("List the file pairs that are most often committed together."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithNumber("min_commits", mcp.Description("Skip pairs whose less active file has fewer commits than this.")),
	), h.handleGetTopCorrelations)

	// --- 3. Tool: get_related_files ---
	s.AddTool(mcp.NewTool("get_related_files",
		mcp.WithDescription("List the files most often committed together with one file."),
		mcp.WithString("path", mcp.Description("Repository-relative path of the file."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithNumber("min_commits", mcp.Description("Skip files with fewer commits than this.")),
	), h.handleGetRelatedFiles)

	// --- 4. Tool: get_clusters ---
	s.AddTool(mcp.NewTool("get_clusters",
		mcp.WithDescription("Group files into clusters of strongly correlated files."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("min_correlation", mcp.Description("Minimum correlation (0..1) for two files to be linked.")),
		mcp.WithNumber("min_commits", mcp.Description("Minimum commits for a file to join a cluster.")),
		mcp.WithNumber("max_connections", mcp.Description("Skip files linked to more than this many files (0 for no limit).")),
	), h.handleGetClusters)

	return s
}

// StartMCPServer starts the corrgraph MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps Deps) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
