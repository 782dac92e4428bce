package internal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

const maxRecordLine = 16 * 1024 * 1024

// LoadRecordsFile reads a JSONL file of records or stream events and returns
// the resulting turns in order. Lines that cannot be used are logged and
// skipped.
func LoadRecordsFile(path string) ([]Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	turns, err := LoadRecords(f, path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}
	return turns, nil
}

// LoadRecords reads JSONL records or events from r
func LoadRecords(r io.Reader, source string) ([]Turn, error) {
	store := NewTurnStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		applyLine(store, scanner.Bytes(), source, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store.Snapshot(), nil
}

// applyLine parses and applies one line, logging failures. It reports
// whether the line changed the store.
func applyLine(store *TurnStore, line []byte, source string, lineNo int) bool {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return false
	}
	ev, err := ParseEvent(line)
	if err == nil {
		err = ApplyEvent(store, ev)
	}
	if err != nil {
		LogWarn("%v", &ParseError{Source: source, Key: fmt.Sprintf("line %d", lineNo), Err: err})
		return false
	}
	return true
}

// EventFollower applies the lines appended to a growing event file
type EventFollower struct {
	path   string
	store  *TurnStore
	offset int64
	lineNo int
	last   os.FileInfo
}

// NewEventFollower creates a follower that feeds store from path
func NewEventFollower(path string, store *TurnStore) *EventFollower {
	return &EventFollower{path: path, store: store}
}

// Poll applies every complete line written since the last call and returns
// how many lines changed the store. A trailing line without a newline is left
// for the next call. A file that shrank or was replaced empties the store and
// is read again from the start.
func (f *EventFollower) Poll() (int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return 0, &StorageError{Path: f.path, Op: "open", Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, &StorageError{Path: f.path, Op: "read", Err: err}
	}
	replaced := f.last != nil && !os.SameFile(f.last, info)
	f.last = info
	if info.Size() < f.offset || replaced {
		Named("follow").WithField("path", f.path).Info("file truncated, rereading")
		f.store.Reset()
		f.offset, f.lineNo = 0, 0
	}
	if info.Size() == f.offset {
		return 0, nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return 0, &StorageError{Path: f.path, Op: "read", Err: err}
	}
	data, err := io.ReadAll(io.LimitReader(file, info.Size()-f.offset))
	if err != nil {
		return 0, &StorageError{Path: f.path, Op: "read", Err: err}
	}

	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return 0, nil
	}

	applied := 0
	for _, line := range bytes.Split(data[:end], []byte("\n")) {
		f.lineNo++
		if applyLine(f.store, line, f.path, f.lineNo) {
			applied++
		}
	}
	f.offset += int64(end + 1)
	return applied, nil
}
