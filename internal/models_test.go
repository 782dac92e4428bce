package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionInfo(t *testing.T) {
	info, err := ParseSessionInfo("session:abc", `{"name":"Refactor","createdAt":1700000000000,"updatedAt":"2024-01-02T03:04:05Z"}`)

	require.NoError(t, err)
	assert.Equal(t, "abc", info.ID)
	assert.Equal(t, "Refactor", info.Name)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), info.CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), info.UpdatedAt)
}

func TestParseSessionInfoErrors(t *testing.T) {
	_, err := ParseSessionInfo("turn:abc:1", `{}`)
	assert.Error(t, err)

	_, err = ParseSessionInfo("session:", `{}`)
	assert.Error(t, err)

	_, err = ParseSessionInfo("session:abc", `{broken`)
	assert.Error(t, err)
}

func TestParseTurnKey(t *testing.T) {
	tests := []struct {
		key     string
		session string
		seq     int
		wantErr bool
	}{
		{key: "turn:abc:0", session: "abc", seq: 0},
		{key: "turn:abc:12", session: "abc", seq: 12},
		{key: "turn:with:colon:3", session: "with:colon", seq: 3},
		{key: "turn:abc", wantErr: true},
		{key: "turn::1", wantErr: true},
		{key: "turn:abc:x", wantErr: true},
		{key: "session:abc:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			session, seq, err := ParseTurnKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.session, session)
			assert.Equal(t, tt.seq, seq)
		})
	}
}

func TestKeysRoundTrip(t *testing.T) {
	session, seq, err := ParseTurnKey(TurnKey("s-1", 7))
	require.NoError(t, err)
	assert.Equal(t, "s-1", session)
	assert.Equal(t, 7, seq)
	assert.Equal(t, "session:s-1", SessionKey("s-1"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}
