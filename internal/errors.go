package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id has no rows in the database
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotTranscriptDB is returned for SQLite files without a transcriptKV table
	ErrNotTranscriptDB = errors.New("no transcriptKV table")
	// ErrInvalidRecord is returned for input that is not a JSON object
	ErrInvalidRecord = errors.New("record is not a JSON object")
	// ErrGroupRecord is returned for pre-grouped records; groups are derived, never read
	ErrGroupRecord = errors.New("group records are derived, not stored")
	// ErrUnknownTurn is returned when an event references a turn id never seen
	ErrUnknownTurn = errors.New("unknown turn")
	// ErrTurnComplete is returned when content is appended to a finished turn
	ErrTurnComplete = errors.New("turn is already complete")
)

// StorageError is a failure to reach a transcript source: the SQLite
// database, a records or event file, stdin, or the config file.
type StorageError struct {
	Path string
	Op   string // open, read or query
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError marks one record that could not be turned into a Turn. Sources
// log it and move on to the next record.
type ParseError struct {
	Source string // file path, "transcriptKV" or "config"
	Key    string // row key, "line N" or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReconstructionError is a session whose turns could not be loaded
type ReconstructionError struct {
	SessionID string
	Err       error
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("reconstruction error: session %s: %v", e.SessionID, e.Err)
}

func (e *ReconstructionError) Unwrap() error { return e.Err }

// ExportError is a transcript that could not be written
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error: %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
