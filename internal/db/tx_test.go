package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE playlists (id TEXT PRIMARY KEY, name TEXT NOT NULL, meta TEXT)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countPlaylists(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO playlists (id, name) VALUES (?, ?)`, "p1", "Road Trip")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if got := countPlaylists(t, db); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	testErr := errors.New("test error")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO playlists (id, name) VALUES (?, ?)`, "p1", "a"); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO playlists (id, name) VALUES (?, ?)`, "p2", "b"); err != nil {
			return err
		}
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}
	if got := countPlaylists(t, db); got != 0 {
		t.Errorf("count = %d, want 0 (all rolled back)", got)
	}
}

func TestWithTx_ConstraintError(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO playlists (id, name) VALUES (?, ?)`, "p1", "a"); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO playlists (id, name) VALUES (?, ?)`, "p1", "dup")
		return err
	})

	if err == nil {
		t.Fatal("WithTx should return the duplicate key error")
	}
	if got := countPlaylists(t, db); got != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", got)
	}
}

func TestWithTxContext_Cancelled(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTxContext(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Error("fn must not run on a cancelled context")
	}
}

func TestNullStringValue(t *testing.T) {
	tests := []struct {
		in   sql.NullString
		want string
	}{
		{sql.NullString{String: "hello", Valid: true}, "hello"},
		{sql.NullString{String: "hello", Valid: false}, ""},
		{sql.NullString{String: "", Valid: true}, ""},
	}
	for _, tt := range tests {
		if got := NullStringValue(tt.in); got != tt.want {
			t.Errorf("NullStringValue(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNullFloat64Value(t *testing.T) {
	tests := []struct {
		in   sql.NullFloat64
		want float64
	}{
		{sql.NullFloat64{Float64: 215.5, Valid: true}, 215.5},
		{sql.NullFloat64{Float64: 215.5, Valid: false}, 0},
		{sql.NullFloat64{Float64: 0, Valid: true}, 0},
	}
	for _, tt := range tests {
		if got := NullFloat64Value(tt.in); got != tt.want {
			t.Errorf("NullFloat64Value(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStringOrNull(t *testing.T) {
	if got := StringOrNull(""); got != nil {
		t.Errorf("StringOrNull(\"\") = %v, want nil", got)
	}
	if got := StringOrNull("1997"); got != "1997" {
		t.Errorf("StringOrNull(\"1997\") = %v, want \"1997\"", got)
	}
}

type meta struct {
	Tags []string `json:"tags"`
	Min  *int     `json:"min,omitempty"`
}

func TestJSONOrNull_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	minLen := 3

	empty, err := JSONOrNull[meta](nil)
	if err != nil || empty != nil {
		t.Fatalf("JSONOrNull(nil) = %v, %v; want nil, nil", empty, err)
	}

	v, err := JSONOrNull(&meta{Tags: []string{"calm"}, Min: &minLen})
	if err != nil {
		t.Fatalf("JSONOrNull failed: %v", err)
	}
	if v != `{"tags":["calm"],"min":3}` {
		t.Errorf("JSONOrNull = %v", v)
	}

	if _, err := db.Exec(`INSERT INTO playlists (id, name, meta) VALUES ('a', 'A', ?), ('b', 'B', ?)`, v, empty); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var col sql.NullString
	if err := db.QueryRow(`SELECT meta FROM playlists WHERE id = 'a'`).Scan(&col); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	got, err := ScanJSON[meta](col)
	if err != nil {
		t.Fatalf("ScanJSON failed: %v", err)
	}
	if got == nil || len(got.Tags) != 1 || got.Tags[0] != "calm" || got.Min == nil || *got.Min != 3 {
		t.Errorf("ScanJSON = %+v", got)
	}

	if err := db.QueryRow(`SELECT meta FROM playlists WHERE id = 'b'`).Scan(&col); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	got, err = ScanJSON[meta](col)
	if err != nil || got != nil {
		t.Errorf("ScanJSON(NULL) = %+v, %v; want nil, nil", got, err)
	}
}

func TestScanJSON_Invalid(t *testing.T) {
	_, err := ScanJSON[meta](sql.NullString{String: "{not json", Valid: true})
	if err == nil {
		t.Error("ScanJSON should fail on malformed JSON")
	}
}
