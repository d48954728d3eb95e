package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ScratchPath is the database path used for a normal run: the scratch
// store lives only for the duration of one invocation.
const ScratchPath = ":memory:"

// NewDatabase opens a connection to a SQLite database at the specified path.
//
// The default for this tool is [ScratchPath]; a file path can be passed for
// debugging a run's intermediate state.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// An in-memory database is destroyed when its last connection closes,
	// so the pool must never shrink to zero while the run is active.
	if path == ScratchPath {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}
