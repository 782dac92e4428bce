package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createTranscriptKV = `
	CREATE TABLE IF NOT EXISTS transcriptKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`

// CreateInMemoryDB creates an in-memory SQLite database with an empty
// transcriptKV table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(createTranscriptKV); err != nil {
		t.Fatalf("Failed to create transcriptKV table: %v", err)
	}
	return db
}

// CreateTestDB creates an in-memory database holding the sample sessions
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)
	for _, row := range SampleRows() {
		InsertRow(t, db, row.Key, row.Value)
	}
	return db
}

// InsertRow inserts one key/value row into transcriptKV
func InsertRow(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO transcriptKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}
