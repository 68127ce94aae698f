// Package graphio persists correlation graphs to files and SQL databases.
package graphio

import (
	"errors"
	"fmt"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// ErrUnsupportedBackend is returned for a store backend with no implementation.
var ErrUnsupportedBackend = errors.New("unsupported store backend")

// NewGraphStore opens the store selected by the configuration. The graph key
// for SQL backends is the repository root, so one database can hold the
// graphs of many repositories.
func NewGraphStore(cfg *contract.Config) (contract.GraphStore, error) {
	switch cfg.StoreBackend {
	case schema.JSONBackend, "":
		path := cfg.GraphFile
		if path == "" {
			path = contract.GetGraphFilePath(cfg.RepoPath)
		}
		return NewJSONGraphStore(path), nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLGraphStore(cfg.StoreBackend, cfg.StoreConnect, cfg.RepoPath)
	default:
		return nil, fmt.Errorf("%w: %s. Must be json, sqlite, mysql, or postgresql", ErrUnsupportedBackend, cfg.StoreBackend)
	}
}
