package db

import (
	"context"
	"database/sql"
	"encoding/json"
)

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	return WithTxContext(context.Background(), db, fn)
}

// WithTxContext is WithTx bound to ctx.
func WithTxContext(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullStringValue returns the string value or empty string if not valid.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// NullFloat64Value returns the float64 value or 0 if not valid.
func NullFloat64Value(n sql.NullFloat64) float64 {
	if !n.Valid {
		return 0
	}
	return n.Float64
}

// StringOrNull returns nil for an empty string, so it is stored as NULL.
func StringOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// JSONOrNull encodes v as JSON text, or returns nil when v is nil.
func JSONOrNull[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ScanJSON decodes a nullable JSON column. Returns nil when the column is NULL.
func ScanJSON[T any](n sql.NullString) (*T, error) {
	if !n.Valid || n.String == "" {
		return nil, nil //nolint:nilnil // NULL column means no value
	}
	var v T
	if err := json.Unmarshal([]byte(n.String), &v); err != nil {
		return nil, err
	}
	return &v, nil
}
