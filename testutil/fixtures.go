package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// Row is one transcriptKV row
type Row struct {
	Key   string
	Value string
}

// Sample session ids
const (
	ArchitectSessionID = "architect-demo"
	SmallSessionID     = "small-chat"
)

// ArchitectRecords mirrors an architect/editor exchange: a planning group,
// then an edit group whose last member arrives after an unrelated turn.
var ArchitectRecords = []string{
	`{"id":"r1","role":"assistant","type":"reflected-message","content":"---\n► **THINKING**\nThe user wants a greeting.\n---\n► **ANSWER**\nI will add one.","usageReport":"Tokens: 100 sent, 50 received. Cost: $0.0010 message, $0.0010 session.","promptContext":{"id":"p1","group":{"id":"plan","name":"Plan"}},"mode":"architect"}`,
	`{"id":"u1","role":"user","content":"update main.go to print hello","promptContext":{"id":"p2","group":{"id":"edit","name":"Edit","color":"#22c55e"}}}`,
	`{"id":"a1","role":"assistant","content":"main.go\n` + "```go" + `\n<<<<<<< SEARCH\nfmt.Println(\"hi\")\n=======\nfmt.Println(\"hello\")\n>>>>>>> REPLACE\n` + "```" + `\n","usageReport":{"model":"gpt-4o","sentTokens":633,"receivedTokens":98,"messageCost":0.002},"promptContext":{"id":"p2","group":{"id":"edit"}}}`,
	`{"id":"l1","type":"log","level":"warning","content":"lint skipped"}`,
	`{"id":"a2","role":"assistant","content":"Done.","usageReport":{"model":"gpt-4o","sentTokens":1600,"receivedTokens":37,"messageCost":0.0034},"promptContext":{"id":"p3","group":{"id":"edit","finished":true}}}`,
}

// SmallRecords is an ungrouped two turn chat
var SmallRecords = []string{
	`{"id":"s1","role":"user","content":"Hello"}`,
	`{"id":"s2","role":"assistant","content":"Hi there"}`,
}

// SampleRows returns the transcriptKV rows of the sample sessions
func SampleRows() []Row {
	rows := []Row{
		{Key: "session:" + ArchitectSessionID, Value: `{"name":"Architect demo","createdAt":1700000000000,"updatedAt":1700000600000}`},
		{Key: "session:" + SmallSessionID, Value: `{"name":"Small chat","createdAt":1690000000000,"updatedAt":1690000000000}`},
	}
	for i, rec := range ArchitectRecords {
		rows = append(rows, Row{Key: turnKey(ArchitectSessionID, i), Value: rec})
	}
	for i, rec := range SmallRecords {
		rows = append(rows, Row{Key: turnKey(SmallSessionID, i), Value: rec})
	}
	return rows
}

func turnKey(sessionID string, seq int) string {
	return "turn:" + sessionID + ":" + strconv.Itoa(seq)
}

// CreateSQLiteFixture writes a database file holding the sample sessions
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createTranscriptKV); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	for _, row := range SampleRows() {
		InsertRow(t, db, row.Key, row.Value)
	}
}

// WriteRecordsFile writes lines as a JSONL file and returns its path
func WriteRecordsFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write records file: %v", err)
	}
	return path
}
