package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func appendText(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestLoadRecordsFile(t *testing.T) {
	buf := withLogBuffer(t)
	path := writeLines(t,
		`{"id":"u1","role":"user","content":"hi"}`,
		``,
		`not json`,
		`{"id":"a1","role":"assistant","content":"hello","promptContext":{"group":{"id":"g"}}}`,
		`{"event":"turn","id":"a2","role":"assistant","content":"str"}`,
		`{"event":"chunk","id":"a2","text":"eaming"}`,
	)

	turns, err := LoadRecordsFile(path)

	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "u1", turns[0].ID)
	assert.Equal(t, "g", turns[1].GroupID)
	assert.Equal(t, "streaming", turns[2].Content)
	assert.False(t, turns[2].IsComplete)
	assert.Contains(t, buf.String(), "line 3")
}

func TestLoadRecordsFileMissing(t *testing.T) {
	_, err := LoadRecordsFile(filepath.Join(t.TempDir(), "missing.jsonl"))

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "open", storageErr.Op)
}

func TestEventFollowerPoll(t *testing.T) {
	withLogBuffer(t)
	path := writeLines(t, `{"event":"turn","id":"t1","content":"a"}`+"\n")
	store := NewTurnStore()
	follower := NewEventFollower(path, store)

	n, err := follower.Poll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = follower.Poll()
	require.NoError(t, err)
	assert.Zero(t, n, "nothing new")

	// a partial line waits for its newline
	appendText(t, path, `{"event":"chunk","id":"t1","text":"b"}`)
	n, err = follower.Poll()
	require.NoError(t, err)
	assert.Zero(t, n)

	appendText(t, path, "\n"+`{"event":"complete","id":"t1"}`+"\n")
	n, err = follower.Poll()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	turn, ok := store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "ab", turn.Content)
	assert.True(t, turn.IsComplete)
}

func TestEventFollowerTruncation(t *testing.T) {
	withLogBuffer(t)
	path := writeLines(t, `{"id":"first","content":"one"}`, `{"id":"second","content":"two"}`+"\n")
	store := NewTurnStore()
	follower := NewEventFollower(path, store)

	_, err := follower.Poll()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"third"}`+"\n"), 0o644))

	n, err := follower.Poll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, store.Len(), "turns of the old contents are dropped")
	_, ok := store.Get("third")
	assert.True(t, ok)
}

func TestEventFollowerTruncationDoesNotReplayChunks(t *testing.T) {
	withLogBuffer(t)
	path := writeLines(t,
		`{"event":"turn","id":"t1","role":"assistant"}`,
		`{"event":"chunk","id":"t1","text":"hello "}`,
		`{"event":"chunk","id":"t1","text":"world"}`+"\n",
	)
	store := NewTurnStore()
	follower := NewEventFollower(path, store)

	_, err := follower.Poll()
	require.NoError(t, err)
	turn, _ := store.Get("t1")
	require.Equal(t, "hello world", turn.Content)

	require.NoError(t, os.WriteFile(path, []byte(`{"event":"turn","id":"t1","role":"assistant"}`+"\n"+`{"event":"chunk","id":"t1","text":"hello "}`+"\n"), 0o644))
	_, err = follower.Poll()
	require.NoError(t, err)

	turn, ok := store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "hello ", turn.Content)
	assert.Equal(t, 1, store.Len())
}

func TestEventFollowerReplacedFile(t *testing.T) {
	withLogBuffer(t)
	path := writeLines(t, `{"id":"old","content":"x"}`+"\n")
	store := NewTurnStore()
	follower := NewEventFollower(path, store)

	_, err := follower.Poll()
	require.NoError(t, err)

	next := path + ".new"
	require.NoError(t, os.WriteFile(next, []byte(`{"id":"new","content":"a longer replacement record"}`+"\n"), 0o644))
	require.NoError(t, os.Rename(next, path))

	_, err = follower.Poll()
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	_, ok := store.Get("new")
	assert.True(t, ok)
}
