package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Key prefixes of the transcriptKV table
const (
	sessionKeyPrefix = "session:"
	turnKeyPrefix    = "turn:"
)

// ParseSessionInfo parses a session:<sessionId> row
func ParseSessionInfo(key, value string) (*SessionInfo, error) {
	id, ok := strings.CutPrefix(key, sessionKeyPrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid session key format: %s", key)
	}
	if !gjson.Valid(value) {
		return nil, fmt.Errorf("failed to parse session JSON for %s", key)
	}
	meta := gjson.Parse(value)

	return &SessionInfo{
		ID:        id,
		Name:      meta.Get("name").String(),
		CreatedAt: parseTimestamp(meta.Get("createdAt")),
		UpdatedAt: parseTimestamp(meta.Get("updatedAt")),
	}, nil
}

// ParseTurnKey splits a turn:<sessionId>:<seq> key
func ParseTurnKey(key string) (sessionID string, seq int, err error) {
	rest, ok := strings.CutPrefix(key, turnKeyPrefix)
	idx := strings.LastIndexByte(rest, ':')
	if !ok || idx <= 0 {
		return "", 0, fmt.Errorf("invalid turn key format: %s", key)
	}
	seq, err = strconv.Atoi(rest[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid turn sequence in %s: %w", key, err)
	}
	return rest[:idx], seq, nil
}

// TurnKey builds the transcriptKV key of one turn
func TurnKey(sessionID string, seq int) string {
	return fmt.Sprintf("%s%s:%d", turnKeyPrefix, sessionID, seq)
}

// SessionKey builds the transcriptKV key of a session's metadata
func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// parseTimestamp accepts Unix milliseconds or an RFC 3339 string
func parseTimestamp(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		if v.Int() <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(v.Int()).UTC()
	case gjson.String:
		t, err := time.Parse(time.RFC3339, v.Str)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}

// escapeLike escapes LIKE wildcards for use with ESCAPE '\'
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
