package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// StoreBackend represents the backend that persists the correlation graph.
	StoreBackend string

	// ChangeType represents how a commit touched a file.
	ChangeType string

	// CorrelationLevel represents a coarse bucket for a correlation value.
	CorrelationLevel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All graph store backends supported.
const (
	JSONBackend       StoreBackend = "json" // default
	SQLiteBackend     StoreBackend = "sqlite"
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
)

// All change types reported by the history reader.
const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// All correlation levels.
const (
	HighLevel   CorrelationLevel = "High"
	MediumLevel CorrelationLevel = "Medium"
	LowLevel    CorrelationLevel = "Low"
)

// Thresholds used to bucket correlation values.
const (
	HighCorrelationThreshold   = 0.8
	MediumCorrelationThreshold = 0.5
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid graph store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	JSONBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// IsSQL reports whether the backend is backed by a database/sql driver.
func (b StoreBackend) IsSQL() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		return true
	default:
		return false
	}
}

// GetCorrelationLevel buckets a correlation value into a level.
func GetCorrelationLevel(correlation float64) CorrelationLevel {
	switch {
	case correlation >= HighCorrelationThreshold:
		return HighLevel
	case correlation >= MediumCorrelationThreshold:
		return MediumLevel
	default:
		return LowLevel
	}
}
