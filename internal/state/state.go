package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "setlist"
	dbFileName = "setlist.db"
)

// SQLiteStore keeps AppState in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Verify SQLiteStore implements Store at compile time.
var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens the database at path, or at the default data location
// when path is empty.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the saved state.
func (s *SQLiteStore) Load(ctx context.Context) (*AppState, error) {
	return loadState(ctx, s.db)
}

// Save replaces the saved state with a.
func (s *SQLiteStore) Save(ctx context.Context, a AppState) error {
	return saveState(ctx, s.db, Persisted(a))
}

// DB returns the underlying database.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DefaultDBPath returns the database location under the XDG data directory.
func DefaultDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
