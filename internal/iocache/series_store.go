package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// seriesTable is the name of the table for bucketed series storage.
const seriesTable = "trendspot_series"

// SeriesStoreImpl handles durable series storage using various database backends.
type SeriesStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.SeriesStore = &SeriesStoreImpl{} // Compile-time check

// NewSeriesStore initializes and returns a new SeriesStore based on the backend type.
func NewSeriesStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.SeriesStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetSeriesDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite series store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL series store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL series store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled persistence
		return &SeriesStoreImpl{
			db:        nil,
			tableName: tableName,
			backend:   backend,
			connStr:   connStr,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported series backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection (skip for NoneBackend)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	// Create the table schema
	query := getCreateSeriesQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SeriesStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateSeriesQuery returns the CREATE TABLE query for the given backend.
// Bucket times are stored as epoch seconds so range scans behave the same on
// every backend.
func getCreateSeriesQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				item_id VARCHAR(255) NOT NULL,
				bucket_time BIGINT NOT NULL,
				bucket_count DOUBLE NOT NULL,
				PRIMARY KEY (item_id, bucket_time)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				item_id TEXT NOT NULL,
				bucket_time BIGINT NOT NULL,
				bucket_count DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (item_id, bucket_time)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				item_id TEXT NOT NULL,
				bucket_time INTEGER NOT NULL,
				bucket_count REAL NOT NULL,
				PRIMARY KEY (item_id, bucket_time)
			);
		`, quotedTableName)
	}
}

// UpsertSeries replaces the stored points of one item with the given series.
// The delete and inserts run in a single transaction so readers never see a
// half-written series.
func (ss *SeriesStoreImpl) UpsertSeries(series schema.ItemSeries) error {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE item_id = %s`,
		quotedTableName, placeholderFor(ss.backend, 1))
	if _, err := tx.Exec(deleteQuery, series.Item); err != nil {
		return fmt.Errorf("failed to clear series for %s: %w", series.Item, err)
	}

	var insertQuery string
	if ss.backend == schema.PostgreSQLBackend {
		insertQuery = fmt.Sprintf(`INSERT INTO %s (item_id, bucket_time, bucket_count) VALUES ($1, $2, $3)`, quotedTableName)
	} else {
		insertQuery = fmt.Sprintf(`INSERT INTO %s (item_id, bucket_time, bucket_count) VALUES (?, ?, ?)`, quotedTableName)
	}

	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare series insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range series.Points {
		if _, err := stmt.Exec(series.Item, p.Timestamp.Unix(), p.Count); err != nil {
			return fmt.Errorf("failed to insert point for %s: %w", series.Item, err)
		}
	}

	return tx.Commit()
}

// GetSeries returns one item's stored series in ascending bucket order.
func (ss *SeriesStoreImpl) GetSeries(item string) (schema.ItemSeries, error) {
	series := schema.ItemSeries{Item: item}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return series, sql.ErrNoRows
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)
	query := fmt.Sprintf(`SELECT bucket_time, bucket_count FROM %s WHERE item_id = %s ORDER BY bucket_time`,
		quotedTableName, placeholderFor(ss.backend, 1))

	rows, err := ss.db.Query(query, item)
	if err != nil {
		return series, fmt.Errorf("failed to query series for %s: %w", item, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bucketTime int64
		var count float64
		if err := rows.Scan(&bucketTime, &count); err != nil {
			return series, fmt.Errorf("failed to scan series point: %w", err)
		}
		series.Points = append(series.Points, schema.SeriesPoint{
			Timestamp: time.Unix(bucketTime, 0).UTC(),
			Count:     count,
		})
	}
	if err := rows.Err(); err != nil {
		return series, fmt.Errorf("error iterating series points: %w", err)
	}
	if len(series.Points) == 0 {
		return series, sql.ErrNoRows
	}

	return series, nil
}

// GetAllSeries returns every stored series, ordered by item then bucket.
func (ss *SeriesStoreImpl) GetAllSeries() ([]schema.ItemSeries, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)
	query := fmt.Sprintf(`SELECT item_id, bucket_time, bucket_count FROM %s ORDER BY item_id, bucket_time`, quotedTableName)

	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ItemSeries
	var current *schema.ItemSeries

	for rows.Next() {
		var item string
		var bucketTime int64
		var count float64
		if err := rows.Scan(&item, &bucketTime, &count); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		if current == nil || current.Item != item {
			results = append(results, schema.ItemSeries{Item: item})
			current = &results[len(results)-1]
		}
		current.Points = append(current.Points, schema.SeriesPoint{
			Timestamp: time.Unix(bucketTime, 0).UTC(),
			Count:     count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}

	return results, nil
}

// Close closes the underlying DB connection.
func (ss *SeriesStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the series store.
func (ss *SeriesStoreImpl) GetStatus() (schema.SeriesStatus, error) {
	status := schema.SeriesStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT item_id) FROM %s", quotedTableName)
	row := ss.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalPoints, &status.TotalItems); err != nil {
		return status, fmt.Errorf("failed to get series counts: %w", err)
	}

	if status.TotalPoints == 0 {
		return status, nil
	}

	rangeQuery := fmt.Sprintf("SELECT MIN(bucket_time), MAX(bucket_time) FROM %s", quotedTableName)
	row = ss.db.QueryRow(rangeQuery)
	var firstTs, lastTs int64
	if err := row.Scan(&firstTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to get bucket range: %w", err)
	}
	status.FirstBucket = time.Unix(firstTs, 0).UTC()
	status.LastBucketTime = time.Unix(lastTs, 0).UTC()

	// Estimate table size (approximate)
	switch ss.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		row = ss.db.QueryRow(sizeQuery)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			// If pragma fails, skip size
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		// Fallback rough estimate if information_schema query fails
		status.TableSizeBytes = int64(status.TotalPoints) * 50

		cfg, err := mysql.ParseDSN(ss.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		row := ss.db.QueryRow(sizeQuery, cfg.DBName, ss.tableName)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.TotalPoints) * 50
		}
	case schema.PostgreSQLBackend:
		sizeQuery := "SELECT pg_total_relation_size($1)"
		row = ss.db.QueryRow(sizeQuery, ss.tableName)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.TotalPoints) * 50 // Fallback rough estimate
		}
	default:
		status.TableSizeBytes = int64(status.TotalPoints) * 50 // Rough estimate
	}

	return status, nil
}
