package internal

import (
	"fmt"
	"sync"
)

// TurnStore holds the live, ordered turn list of one session. It enforces
// the turn lifecycle: content only grows while a turn is incomplete, is
// frozen once complete, and a turn keeps the group id it was created with.
type TurnStore struct {
	mu    sync.RWMutex
	order []string
	turns map[string]*Turn
}

// NewTurnStore creates an empty TurnStore
func NewTurnStore() *TurnStore {
	return &TurnStore{
		turns: make(map[string]*Turn),
	}
}

// Upsert adds a turn at the tail, or updates a known turn in place.
//
// An update keeps the turn's position and group id. Content of a completed
// turn is left alone; for an incomplete turn the new content replaces the old
// only when it extends it.
func (s *TurnStore) Upsert(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.turns[turn.ID]
	if !ok {
		t := turn
		s.turns[turn.ID] = &t
		s.order = append(s.order, turn.ID)
		return
	}

	content := existing.Content
	if !existing.IsComplete && len(turn.Content) >= len(content) && turn.Content[:len(content)] == content {
		content = turn.Content
	} else if turn.Content != content {
		Named("store").WithField("id", turn.ID).Debug("ignoring content rewrite")
	}

	updated := turn
	updated.Content = content
	updated.GroupID = existing.GroupID
	updated.Group = mergeGroupMeta(existing, turn.Group)
	updated.IsComplete = existing.IsComplete || turn.IsComplete
	if updated.Usage == nil {
		updated.Usage = existing.Usage
	}
	*existing = updated
}

// mergeGroupMeta accepts refreshed group metadata only for the group the
// turn already belongs to
func mergeGroupMeta(existing *Turn, meta *Group) *Group {
	if meta == nil || existing.GroupID == "" || meta.ID != existing.GroupID {
		return existing.Group
	}
	g := *meta
	return &g
}

// Append adds streamed text to an incomplete turn
func (s *TurnStore) Append(id, delta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, ok := s.turns[id]
	if !ok {
		return fmt.Errorf("append to %s: %w", id, ErrUnknownTurn)
	}
	if turn.IsComplete {
		return fmt.Errorf("append to %s: %w", id, ErrTurnComplete)
	}
	turn.Content += delta
	return nil
}

// Complete marks a turn as finished; its content is immutable afterwards
func (s *TurnStore) Complete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, ok := s.turns[id]
	if !ok {
		return fmt.Errorf("complete %s: %w", id, ErrUnknownTurn)
	}
	turn.IsComplete = true
	return nil
}

// Get returns a copy of one turn
func (s *TurnStore) Get(id string) (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turn, ok := s.turns[id]
	if !ok {
		return Turn{}, false
	}
	return *turn, true
}

// Snapshot returns a copy of all turns in arrival order
func (s *TurnStore) Snapshot() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, 0, len(s.order))
	for _, id := range s.order {
		turns = append(turns, *s.turns[id])
	}
	return turns
}

// Reset drops every turn
func (s *TurnStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.turns = make(map[string]*Turn)
}

// Len returns the number of turns in the store
func (s *TurnStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
