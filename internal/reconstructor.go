package internal

// Reconstructor builds grouped transcripts from flat turn lists
type Reconstructor struct{}

// NewReconstructor creates a new Reconstructor
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Reconstruct groups the turns of one session and totals its usage. It is
// cheap enough to run again on every change of the turn list.
func (r *Reconstructor) Reconstruct(sessionID string, turns []Turn) *Transcript {
	entries := GroupTurns(turns)

	groups := 0
	for _, e := range entries {
		if _, ok := e.(*GroupedTurn); ok {
			groups++
		}
	}

	return &Transcript{
		SessionID:  sessionID,
		Entries:    entries,
		Turns:      turns,
		TurnCount:  len(turns),
		GroupCount: groups,
		Usage:      AggregateUsage(turns),
	}
}

// ReconstructSession loads a stored session and reconstructs it
func (r *Reconstructor) ReconstructSession(storage *Storage, info SessionInfo) (*Transcript, error) {
	turns, err := storage.LoadTurns(info.ID)
	if err != nil {
		return nil, &ReconstructionError{SessionID: info.ID, Err: err}
	}
	if len(turns) == 0 {
		LogDebug("Session %s has no turns", info.ID)
	}
	t := r.Reconstruct(info.ID, turns)
	t.Name = info.Name
	return t, nil
}
