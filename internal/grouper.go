package internal

import "strings"

// GroupTurns collapses turns sharing a group id into one GroupedTurn.
//
// A group is placed where its first member appears. Later members attach to
// that bucket even when unrelated turns or other groups came in between, so
// a planning turn and a much later edit turn render together. Turns without a
// usable group id pass through in order. Nothing is dropped or duplicated.
func GroupTurns(turns []Turn) []Entry {
	entries := make([]Entry, 0, len(turns))
	buckets := make(map[string]*GroupedTurn)

	for _, turn := range turns {
		if strings.TrimSpace(turn.GroupID) == "" {
			entries = append(entries, turn)
			continue
		}

		bucket, ok := buckets[turn.GroupID]
		if !ok {
			bucket = &GroupedTurn{Group: Group{ID: turn.GroupID}}
			buckets[turn.GroupID] = bucket
			entries = append(entries, bucket)
		}
		bucket.Children = append(bucket.Children, turn)
		bucket.mergeGroup(turn.Group)
	}

	return entries
}

// mergeGroup folds one member's group metadata into the bucket. Name and
// color stick to the first member that sets them; finished tracks the latest.
func (g *GroupedTurn) mergeGroup(meta *Group) {
	if meta == nil {
		return
	}
	if g.Group.Name == "" {
		g.Group.Name = meta.Name
	}
	if g.Group.Color == "" {
		g.Group.Color = meta.Color
	}
	g.Group.Finished = meta.Finished
}
