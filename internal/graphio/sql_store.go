package graphio

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// SQLGraphStore keeps graphs in three tables shared by every repository,
// with the rows of one graph selected by its key.
type SQLGraphStore struct {
	db       *sql.DB
	backend  schema.StoreBackend
	connStr  string
	graphKey string
	prefix   string
	tables   sqlTables
}

var _ contract.GraphStore = &SQLGraphStore{} // Compile-time check

// NewSQLGraphStore connects to the database and creates the graph tables.
func NewSQLGraphStore(backend schema.StoreBackend, connStr, graphKey string) (*SQLGraphStore, error) {
	return NewSQLGraphStoreWithPrefix(backend, connStr, graphKey, DefaultTablePrefix)
}

// NewSQLGraphStoreWithPrefix is NewSQLGraphStore with custom table names.
func NewSQLGraphStoreWithPrefix(backend schema.StoreBackend, connStr, graphKey, prefix string) (*SQLGraphStore, error) {
	if graphKey == "" {
		return nil, fmt.Errorf("graph key cannot be empty")
	}
	tables, err := newSQLTables(prefix, backend)
	if err != nil {
		return nil, err
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	for _, query := range createTableQueries(tables, backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create graph tables: %w", err)
		}
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetGraphDBFilePath()
	}
	return &SQLGraphStore{
		db:       db,
		backend:  backend,
		connStr:  connStr,
		graphKey: graphKey,
		prefix:   prefix,
		tables:   tables,
	}, nil
}

// openDB opens and pings the database behind a SQL backend.
func openDB(backend schema.StoreBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetGraphDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

func (s *SQLGraphStore) q(query string, args ...any) string {
	return rebind(s.backend, fmt.Sprintf(query, args...))
}

// Load reads the graph stored under this store's key. A key with no rows
// yields an empty document.
func (s *SQLGraphStore) Load(ctx context.Context) (*schema.GraphDocument, error) {
	doc := schema.NewGraphDocument()

	var hash, date string
	var total int
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT last_commit_hash, last_commit_date, total_commits FROM %s WHERE graph_key = ?`, s.tables.state),
		s.graphKey)
	switch err := row.Scan(&hash, &date, &total); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read processing state: %w", err)
	default:
		commitDate, err := parseStoredTime(date)
		if err != nil {
			return nil, fmt.Errorf("invalid last commit date %q: %w", date, err)
		}
		doc.ProcessingState = schema.ProcessingStateRecord{
			LastProcessedCommitHash: hash,
			LastProcessedCommitDate: commitDate,
			TotalCommitsProcessed:   total,
		}
	}

	index, err := s.loadNodes(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := s.loadEdges(ctx, doc, index); err != nil {
		return nil, err
	}
	return doc, nil
}

// loadNodes appends the node rows to doc sorted by path and returns the
// position of each path.
func (s *SQLGraphStore) loadNodes(ctx context.Context, doc *schema.GraphDocument) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT file_path, commit_count FROM %s WHERE graph_key = ?`, s.tables.nodes), s.graphKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		rec := schema.NodeRecord{Edges: []schema.EdgeRecord{}}
		if err := rows.Scan(&rec.FilePath, &rec.CommitCount); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	slices.SortFunc(doc.Nodes, func(a, b schema.NodeRecord) int {
		return cmp.Compare(a.FilePath, b.FilePath)
	})
	index := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n.FilePath] = i
	}
	return index, nil
}

// loadEdges attaches each edge row to its source node, sorted by target.
func (s *SQLGraphStore) loadEdges(ctx context.Context, doc *schema.GraphDocument, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT source_path, target_path, co_commit_count FROM %s WHERE graph_key = ?`, s.tables.edges), s.graphKey)
	if err != nil {
		return fmt.Errorf("failed to query edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var rec schema.EdgeRecord
		if err := rows.Scan(&rec.SourceFilePath, &rec.TargetFilePath, &rec.CoCommitCount); err != nil {
			return fmt.Errorf("failed to scan edge: %w", err)
		}
		i, ok := index[rec.SourceFilePath]
		if !ok {
			return fmt.Errorf("edge %q -> %q has no source node row", rec.SourceFilePath, rec.TargetFilePath)
		}
		doc.Nodes[i].Edges = append(doc.Nodes[i].Edges, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read edges: %w", err)
	}

	for i := range doc.Nodes {
		slices.SortFunc(doc.Nodes[i].Edges, func(a, b schema.EdgeRecord) int {
			return cmp.Compare(a.TargetFilePath, b.TargetFilePath)
		})
	}
	return nil
}

// Save replaces every row of this graph in a single transaction.
func (s *SQLGraphStore) Save(ctx context.Context, doc *schema.GraphDocument) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.deleteRows(ctx, tx); err != nil {
		return err
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		s.q(`INSERT INTO %s (graph_key, file_path, commit_count) VALUES (?, ?, ?)`, s.tables.nodes))
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer func() { _ = nodeStmt.Close() }()

	edgeStmt, err := tx.PrepareContext(ctx,
		s.q(`INSERT INTO %s (graph_key, source_path, target_path, co_commit_count) VALUES (?, ?, ?, ?)`, s.tables.edges))
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer func() { _ = edgeStmt.Close() }()

	for _, n := range doc.Nodes {
		if _, err = nodeStmt.ExecContext(ctx, s.graphKey, n.FilePath, n.CommitCount); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.FilePath, err)
		}
		for _, e := range n.Edges {
			if _, err = edgeStmt.ExecContext(ctx, s.graphKey, e.SourceFilePath, e.TargetFilePath, e.CoCommitCount); err != nil {
				return fmt.Errorf("failed to insert edge %s -> %s: %w", e.SourceFilePath, e.TargetFilePath, err)
			}
		}
	}

	state := doc.ProcessingState
	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO %s (graph_key, last_commit_hash, last_commit_date, total_commits, updated_at) VALUES (?, ?, ?, ?, ?)`, s.tables.state),
		s.graphKey, state.LastProcessedCommitHash, formatStoredTime(state.LastProcessedCommitDate),
		state.TotalCommitsProcessed, formatStoredTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to write processing state: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph: %w", err)
	}
	return nil
}

// Clear deletes every row of this graph. Other graphs are untouched.
func (s *SQLGraphStore) Clear(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err = s.deleteRows(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

func (s *SQLGraphStore) deleteRows(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{s.tables.edges, s.tables.nodes, s.tables.state} {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM %s WHERE graph_key = ?`, table), s.graphKey); err != nil {
			return fmt.Errorf("failed to delete rows from %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus returns status information about the graph store.
func (s *SQLGraphStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Location:  s.Location(),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}
	ctx := context.Background()

	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM %s`, s.tables.state)).Scan(&status.TotalGraphs); err != nil {
		return status, fmt.Errorf("failed to count graphs: %w", err)
	}
	status.SizeBytes = s.tableSizeBytes(ctx)

	var updatedAt string
	row := s.db.QueryRowContext(ctx, s.q(`SELECT updated_at FROM %s WHERE graph_key = ?`, s.tables.state), s.graphKey)
	switch err := row.Scan(&updatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return status, nil
	case err != nil:
		return status, fmt.Errorf("failed to read graph state: %w", err)
	}
	status.Exists = true
	status.UpdatedAt, _ = parseStoredTime(updatedAt)

	doc, err := s.Load(ctx)
	if err != nil {
		return status, err
	}
	fillDocumentStatus(&status, doc)
	return status, nil
}

// tableSizeBytes estimates the space used by the graph tables. Zero means unknown.
func (s *SQLGraphStore) tableSizeBytes(ctx context.Context) int64 {
	var size sql.NullInt64
	var err error

	switch s.backend {
	case schema.SQLiteBackend:
		err = s.db.QueryRowContext(ctx,
			"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size)
	case schema.MySQLBackend:
		cfg, perr := mysql.ParseDSN(s.connStr)
		if perr != nil || cfg.DBName == "" {
			return 0
		}
		err = s.db.QueryRowContext(ctx,
			`SELECT SUM(data_length + index_length) FROM information_schema.tables
			WHERE table_schema = ? AND table_name IN (?, ?, ?)`,
			cfg.DBName, s.prefix+"_state", s.prefix+"_nodes", s.prefix+"_edges").Scan(&size)
	case schema.PostgreSQLBackend:
		err = s.db.QueryRowContext(ctx,
			`SELECT pg_total_relation_size($1) + pg_total_relation_size($2) + pg_total_relation_size($3)`,
			s.prefix+"_state", s.prefix+"_nodes", s.prefix+"_edges").Scan(&size)
	}
	if err != nil || !size.Valid {
		return 0
	}
	return size.Int64
}

// Location describes the database without exposing credentials.
func (s *SQLGraphStore) Location() string {
	switch s.backend {
	case schema.MySQLBackend:
		if cfg, err := mysql.ParseDSN(s.connStr); err == nil {
			return fmt.Sprintf("mysql://%s/%s#%s", cfg.Addr, cfg.DBName, s.graphKey)
		}
	case schema.PostgreSQLBackend:
		if cfg, err := pgx.ParseConfig(s.connStr); err == nil {
			return fmt.Sprintf("postgresql://%s:%d/%s#%s", cfg.Host, cfg.Port, cfg.Database, s.graphKey)
		}
	case schema.SQLiteBackend:
		return fmt.Sprintf("%s#%s", s.connStr, s.graphKey)
	}
	return fmt.Sprintf("%s#%s", s.backend, s.graphKey)
}

// Close closes the underlying DB connection.
func (s *SQLGraphStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// formatStoredTime renders a time for a TEXT column. The zero time is empty.
func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// parseStoredTime is the inverse of formatStoredTime.
func parseStoredTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
