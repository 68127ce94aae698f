package graphio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// DefaultTablePrefix names the tables created for graph storage.
const DefaultTablePrefix = "corrgraph"

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// sqlTables holds the quoted table names of one graph store.
type sqlTables struct {
	state string
	nodes string
	edges string
}

// newSQLTables derives the table names for a prefix.
func newSQLTables(prefix string, backend schema.StoreBackend) (sqlTables, error) {
	names := []string{prefix + "_state", prefix + "_nodes", prefix + "_edges"}
	for _, name := range names {
		if err := validateTableName(name); err != nil {
			return sqlTables{}, err
		}
	}
	return sqlTables{
		state: quoteTableName(names[0], backend),
		nodes: quoteTableName(names[1], backend),
		edges: quoteTableName(names[2], backend),
	}, nil
}

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.StoreBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// rebind rewrites "?" placeholders into the "$n" form PostgreSQL expects.
func rebind(backend schema.StoreBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// createTableQueries returns one CREATE TABLE statement per table.
func createTableQueries(t sqlTables, backend schema.StoreBackend) []string {
	keyType, intType, textType := "TEXT", "INTEGER", "TEXT"
	if backend == schema.MySQLBackend {
		keyType, intType, textType = "VARCHAR(255)", "INT", "VARCHAR(64)"
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			graph_key %s PRIMARY KEY,
			last_commit_hash %s NOT NULL,
			last_commit_date %s NOT NULL,
			total_commits %s NOT NULL,
			updated_at %s NOT NULL
		)`, t.state, keyType, textType, textType, intType, textType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			graph_key %s NOT NULL,
			file_path %s NOT NULL,
			commit_count %s NOT NULL,
			PRIMARY KEY (graph_key, file_path)
		)`, t.nodes, keyType, keyType, intType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			graph_key %s NOT NULL,
			source_path %s NOT NULL,
			target_path %s NOT NULL,
			co_commit_count %s NOT NULL,
			PRIMARY KEY (graph_key, source_path, target_path)
		)`, t.edges, keyType, keyType, keyType, intType),
	}
}
