package internal

import (
	"database/sql"
	"fmt"
	"sort"
)

// Storage reads sessions and turns from the transcriptKV table
type Storage struct {
	db         *sql.DB
	normalizer *Normalizer
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db, normalizer: NewNormalizer()}
}

// LoadSessions loads every session with its turn count, most recently
// updated first. Sessions that have turns but no metadata row are included.
func (s *Storage) LoadSessions() ([]SessionInfo, error) {
	rows, err := QueryPrefix(s.db, sessionKeyPrefix)
	if err != nil {
		return nil, &StorageError{Path: "transcriptKV", Op: "query", Err: err}
	}

	byID := make(map[string]*SessionInfo)
	for _, row := range rows {
		info, err := ParseSessionInfo(row.Key, row.Value)
		if err != nil {
			LogWarn("Skipping session row: %v", err)
			continue
		}
		byID[info.ID] = info
	}

	counts, err := s.countTurns()
	if err != nil {
		return nil, err
	}
	for id, n := range counts {
		info, ok := byID[id]
		if !ok {
			info = &SessionInfo{ID: id}
			byID[id] = info
		}
		info.TurnCount = n
	}

	sessions := make([]SessionInfo, 0, len(byID))
	for _, info := range byID {
		sessions = append(sessions, *info)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (s *Storage) countTurns() (map[string]int, error) {
	keys, err := QueryKeys(s.db, turnKeyPrefix)
	if err != nil {
		return nil, &StorageError{Path: "transcriptKV", Op: "query", Err: err}
	}

	counts := make(map[string]int)
	for _, key := range keys {
		if sessionID, _, err := ParseTurnKey(key); err == nil {
			counts[sessionID]++
		}
	}
	return counts, nil
}

// LoadSession returns the metadata of one session
func (s *Storage) LoadSession(sessionID string) (SessionInfo, error) {
	sessions, err := s.LoadSessions()
	if err != nil {
		return SessionInfo{}, err
	}
	for _, info := range sessions {
		if info.ID == sessionID {
			return info, nil
		}
	}
	return SessionInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
}

// LoadTurns loads the turns of one session ordered by sequence number.
// Rows that cannot be parsed are logged and skipped.
func (s *Storage) LoadTurns(sessionID string) ([]Turn, error) {
	rows, err := QueryPrefix(s.db, turnKeyPrefix+sessionID+":")
	if err != nil {
		return nil, &StorageError{Path: "transcriptKV", Op: "query", Err: err}
	}

	type seqRecord struct {
		seq   int
		key   string
		value string
	}
	var records []seqRecord
	for _, row := range rows {
		id, seq, err := ParseTurnKey(row.Key)
		if err != nil || id != sessionID {
			continue
		}
		records = append(records, seqRecord{seq: seq, key: row.Key, value: row.Value})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	turns := make([]Turn, 0, len(records))
	for _, rec := range records {
		turn, err := s.normalizer.NormalizeRecord([]byte(rec.value))
		if err != nil {
			LogWarn("%v", &ParseError{Source: "transcriptKV", Key: rec.key, Err: err})
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
