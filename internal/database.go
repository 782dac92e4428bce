package internal

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a transcript database read-only and checks that it
// carries a transcriptKV table. The driver only honours mode=ro for file: URIs.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'transcriptKV'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotTranscriptDB
	}
	if err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

// KVRow is one transcriptKV row with a non-null value
type KVRow struct {
	Key   string
	Value string
}

// QueryPrefix returns the rows whose key starts with prefix. LIKE wildcards
// in prefix match literally, so session ids containing '_' or '%' are safe.
func QueryPrefix(db *sql.DB, prefix string) ([]KVRow, error) {
	rows, err := db.Query(
		`SELECT key, value FROM transcriptKV WHERE key LIKE ? ESCAPE '\' AND value IS NOT NULL`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query %s*: %w", prefix, err)
	}
	defer rows.Close()

	var kv []KVRow
	for rows.Next() {
		var row KVRow
		if err := rows.Scan(&row.Key, &row.Value); err != nil {
			return nil, fmt.Errorf("scan %s*: %w", prefix, err)
		}
		kv = append(kv, row)
	}
	return kv, rows.Err()
}

// QueryKeys returns only the keys starting with prefix
func QueryKeys(db *sql.DB, prefix string) ([]string, error) {
	rows, err := db.Query(`SELECT key FROM transcriptKV WHERE key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("query %s*: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan %s*: %w", prefix, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
