package internal

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iksnae/agent-transcript/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageLoadSessions(t *testing.T) {
	storage := NewStorage(testutil.CreateTestDB(t))

	sessions, err := storage.LoadSessions()

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// most recently updated first
	assert.Equal(t, testutil.ArchitectSessionID, sessions[0].ID)
	assert.Equal(t, "Architect demo", sessions[0].Name)
	assert.Equal(t, len(testutil.ArchitectRecords), sessions[0].TurnCount)
	assert.Equal(t, testutil.SmallSessionID, sessions[1].ID)
	assert.Equal(t, 2, sessions[1].TurnCount)
}

func TestStorageLoadSessionsWithoutMetadata(t *testing.T) {
	withLogBuffer(t)
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertRow(t, db, "turn:orphan:0", `{"content":"x"}`)
	testutil.InsertRow(t, db, "session:broken", `{nope`)

	sessions, err := NewStorage(db).LoadSessions()

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "orphan", sessions[0].ID)
	assert.Equal(t, "orphan", sessions[0].DisplayName())
	assert.Equal(t, 1, sessions[0].TurnCount)
}

func TestStorageLoadTurnsOrdersBySequence(t *testing.T) {
	withLogBuffer(t)
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertRow(t, db, "turn:s:10", `{"id":"ten"}`)
	testutil.InsertRow(t, db, "turn:s:2", `{"id":"two"}`)
	testutil.InsertRow(t, db, "turn:s:1", `{"id":"one"}`)
	testutil.InsertRow(t, db, "turn:s:3", `not json`)
	testutil.InsertRow(t, db, "turn:s_x:1", `{"id":"other session"}`)
	testutil.InsertRow(t, db, "turn:s:x", `{"id":"bad key"}`)

	turns, err := NewStorage(db).LoadTurns("s")

	require.NoError(t, err)
	ids := make([]string, 0, len(turns))
	for _, turn := range turns {
		ids = append(ids, turn.ID)
	}
	assert.Equal(t, []string{"one", "two", "ten"}, ids)
}

func TestStorageLoadSession(t *testing.T) {
	storage := NewStorage(testutil.CreateTestDB(t))

	info, err := storage.LoadSession(testutil.SmallSessionID)
	require.NoError(t, err)
	assert.Equal(t, "Small chat", info.Name)

	_, err = storage.LoadSession("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Contains(t, err.Error(), "session not found: missing")
}

func TestReconstructSession(t *testing.T) {
	storage := NewStorage(testutil.CreateTestDB(t))
	info, err := storage.LoadSession(testutil.ArchitectSessionID)
	require.NoError(t, err)

	transcript, err := NewReconstructor().ReconstructSession(storage, info)

	require.NoError(t, err)
	assert.Equal(t, "Architect demo", transcript.Name)
	assert.Equal(t, 5, transcript.TurnCount)
	assert.Equal(t, 2, transcript.GroupCount)
	require.Len(t, transcript.Entries, 3)

	plan, ok := transcript.Entries[0].(*GroupedTurn)
	require.True(t, ok)
	assert.Equal(t, "Plan", plan.Group.Name)

	edit, ok := transcript.Entries[1].(*GroupedTurn)
	require.True(t, ok)
	assert.Equal(t, "Edit", edit.Group.Name)
	assert.True(t, edit.Group.Finished)
	assert.Len(t, edit.Children, 3)

	usage := transcript.GroupUsage("edit")
	require.NotNil(t, usage)
	assert.Equal(t, 1600, usage.SentTokens)
	assert.InDelta(t, 0.0054, usage.MessageCost, 1e-9)

	_, isTurn := transcript.Entries[2].(Turn)
	assert.True(t, isTurn)
}

func TestOpenDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	testutil.CreateSQLiteFixture(t, path)

	db, err := OpenDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := QueryPrefix(db, "session:")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	keys, err := QueryKeys(db, "turn:"+testutil.SmallSessionID+":")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	_, err = db.Exec("INSERT INTO transcriptKV (key, value) VALUES ('x', 'y')")
	assert.Error(t, err, "database is opened read-only")
}

func TestOpenDatabaseMissing(t *testing.T) {
	_, err := OpenDatabase(filepath.Join(t.TempDir(), "nope", "missing.db"))

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestOpenDatabaseWithoutTranscriptTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenDatabase(path)

	assert.ErrorIs(t, err, ErrNotTranscriptDB)
}

func TestQueryPrefixMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertRow(t, db, "turn:a_b:1", `{"id":"1"}`)
	testutil.InsertRow(t, db, "turn:axb:1", `{"id":"2"}`)

	rows, err := QueryPrefix(db, "turn:a_b:")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "turn:a_b:1", rows[0].Key)
}
