// Package db holds the embedded DuckDB the server uses for boundary
// analytics: the GeoJSON boundary sets are ingested into spatial tables so
// they can be inspected with SQL instead of re-parsing files.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection with the spatial extension
// loaded.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
		if initErr != nil {
			return
		}

		if _, err := instance.Exec("INSTALL spatial; LOAD spatial;"); err != nil {
			// Extension might already be installed, continue
		}
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// IngestBoundary (re)creates a boundary table from a GeoJSON file via the
// spatial extension's ST_Read. The table name is derived from the kind,
// e.g. "boundaries_region".
func IngestBoundary(db *sql.DB, kind, path string) error {
	table := "boundaries_" + kind
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM ST_Read('%s')", table, path)
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("ingest %s: %w", table, err)
	}
	return nil
}

// TableInfo describes one ingested table.
type TableInfo struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// ListTables returns the ingested boundary tables and their row counts.
func ListTables(db *sql.DB) ([]TableInfo, error) {
	rows, err := db.Query(`SELECT table_name FROM information_schema.tables
		WHERE table_name LIKE 'boundaries_%' ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		var count int64
		if err := db.QueryRow(fmt.Sprintf("SELECT count(*) FROM %s", tables[i].Name)).Scan(&count); err == nil {
			tables[i].Rows = count
		}
	}
	return tables, nil
}
