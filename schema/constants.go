package schema

// Custom string types for type safety.
type (
	// Direction selects which tail of the z-score distribution to rank.
	Direction string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string
)

// All ranking directions supported.
const (
	RisingDirection  Direction = "rising" // default: most abnormally increasing items first
	FallingDirection Direction = "falling"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllDirections returns a list of all supported ranking directions.
var AllDirections = []Direction{RisingDirection, FallingDirection}

// ValidDirections lists all valid ranking directions.
var ValidDirections = map[Direction]struct{}{
	RisingDirection:  {},
	FallingDirection: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
