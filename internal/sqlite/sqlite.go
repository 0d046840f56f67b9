// Package sqlite opens SQLite databases through whichever driver the binary
// was built with.
//
// Build modes:
//   - Default: github.com/mattn/go-sqlite3 (CGO), driver name "sqlite3"
//   - Pure Go (-tags purego): modernc.org/sqlite, driver name "sqlite"
//
// Use Open and OpenReadOnly instead of sql.Open so callers never hardcode a
// driver name.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 and "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// Open opens (and creates if needed) a read-write database.
// A single connection is used: all callers in this module are sequential,
// and ":memory:" databases are per-connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// OpenReadOnly opens an existing database in read-only mode.
// The file is not created when missing; the error surfaces on first use,
// so callers should Ping.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open(readOnlyDSN(path))
}

func readOnlyDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		if strings.Contains(path, "?") {
			return path + "&mode=ro"
		}
		return path + "?mode=ro"
	}
	return "file:" + path + "?mode=ro"
}
