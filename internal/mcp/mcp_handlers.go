package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/egorpavlikhin/git-correlation-graph/core"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    Deps
	mu      sync.Mutex // serializes graph updates
}

// correlationsResponse is the payload of the correlation tools.
type correlationsResponse struct {
	Path         string                     `json:"path,omitempty"`
	Graph        schema.ReportMeta          `json:"graph"`
	Correlations []schema.CorrelationResult `json:"correlations"`
}

// clustersResponse is the payload of get_clusters.
type clustersResponse struct {
	Graph    schema.ReportMeta      `json:"graph"`
	Clusters []schema.ClusterResult `json:"clusters"`
}

// configFor clones the base config and points it at the requested repository.
func (h *toolHandler) configFor(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	p := request.GetString("repo_path", "")
	if p == "" {
		return cfg, nil
	}
	root, err := h.deps.GitClient.GetRepoRoot(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("invalid repo_path %q: %w", p, err)
	}
	if root != cfg.RepoPath {
		cfg.RepoPath = root
		if cfg.StoreBackend == schema.JSONBackend {
			cfg.GraphFile = contract.GetGraphFilePath(root)
		}
	}
	return cfg, nil
}

// withStore runs fn against the store of cfg and closes it afterwards.
func (h *toolHandler) withStore(cfg *contract.Config, fn func(store contract.GraphStore) (any, error)) (*mcp.CallToolResult, error) {
	store, err := h.deps.OpenStore(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open graph store: %v", err)), nil
	}
	defer func() { _ = store.Close() }()

	result, err := fn(store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if b := request.GetInt("batch_size", 0); b != 0 {
		if b < 0 || b > contract.MaxBatchSize {
			return mcp.NewToolResultError(fmt.Sprintf("batch_size must be between 1 and %d", contract.MaxBatchSize)), nil
		}
		cfg.BatchSize = b
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.withStore(cfg, func(store contract.GraphStore) (any, error) {
		summary, err := core.RunAnalyze(core.WithSuppressHeader(ctx), cfg, h.deps.NewReader(cfg), store)
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		return summary, nil
	})
}

func (h *toolHandler) handleGetTopCorrelations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	applyLimits(cfg, request)

	return h.withStore(cfg, func(store contract.GraphStore) (any, error) {
		results, meta, err := core.RunTop(ctx, cfg, store)
		if err != nil {
			return nil, fmt.Errorf("failed to read correlations: %w", err)
		}
		return correlationsResponse{Graph: meta, Correlations: results}, nil
	})
}

func (h *toolHandler) handleGetRelatedFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err = contract.NormalizeRepoPath(cfg.RepoPath, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	applyLimits(cfg, request)

	return h.withStore(cfg, func(store contract.GraphStore) (any, error) {
		results, meta, err := core.RunRelated(ctx, cfg, store, path)
		if err != nil {
			return nil, err
		}
		return correlationsResponse{Path: path, Graph: meta, Correlations: results}, nil
	})
}

func (h *toolHandler) handleGetClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c := request.GetFloat("min_correlation", -1); c >= 0 {
		if c > 1 {
			return mcp.NewToolResultError("min_correlation must be between 0 and 1"), nil
		}
		cfg.ClusterMinCorrelation = c
	}
	if m := request.GetInt("min_commits", 0); m > 0 {
		cfg.ClusterMinCommits = m
	}
	if m := request.GetInt("max_connections", -1); m >= 0 {
		cfg.ClusterMaxConnections = m
	}

	return h.withStore(cfg, func(store contract.GraphStore) (any, error) {
		clusters, meta, err := core.RunClusters(ctx, cfg, store)
		if err != nil {
			return nil, fmt.Errorf("failed to build clusters: %w", err)
		}
		return clustersResponse{Graph: meta, Clusters: clusters}, nil
	})
}

// applyLimits copies the limit and min_commits arguments into cfg.
func applyLimits(cfg *contract.Config, request mcp.CallToolRequest) {
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	if m := request.GetInt("min_commits", 0); m > 0 {
		cfg.MinCommits = m
	}
}
