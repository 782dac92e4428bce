package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grouped(id string, g *Group) Turn {
	gid := ""
	if g != nil {
		gid = g.ID
	}
	return Turn{ID: id, Kind: KindResponse, Content: id, IsComplete: true, GroupID: gid, Group: g}
}

func childIDs(entry Entry) []string {
	var ids []string
	switch v := entry.(type) {
	case Turn:
		ids = append(ids, v.ID)
	case *GroupedTurn:
		for _, c := range v.Children {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestGroupTurnsFirstAppearance(t *testing.T) {
	g1 := &Group{ID: "g1", Name: "Edit"}
	g2 := &Group{ID: "g2", Name: "Plan"}
	turns := []Turn{
		grouped("A", g2),
		grouped("B", g1),
		grouped("C", g1),
		grouped("D", g1),
		grouped("E", g1),
	}

	entries := GroupTurns(turns)

	require.Len(t, entries, 2)
	first, ok := entries[0].(*GroupedTurn)
	require.True(t, ok)
	assert.Equal(t, "g2", first.Group.ID)
	assert.Equal(t, []string{"A"}, childIDs(first))

	second, ok := entries[1].(*GroupedTurn)
	require.True(t, ok)
	assert.Equal(t, "g1", second.Group.ID)
	assert.Equal(t, []string{"B", "C", "D", "E"}, childIDs(second))
}

func TestGroupTurnsBucketNeverMoves(t *testing.T) {
	plan := &Group{ID: "plan"}
	other := &Group{ID: "other"}
	turns := []Turn{
		grouped("u1", nil),
		grouped("p1", plan),
		grouped("u2", nil),
		grouped("o1", other),
		grouped("p2", plan),
		grouped("u3", nil),
	}

	entries := GroupTurns(turns)

	require.Len(t, entries, 5)
	assert.Equal(t, []string{"u1"}, childIDs(entries[0]))
	assert.Equal(t, []string{"p1", "p2"}, childIDs(entries[1]))
	assert.Equal(t, []string{"u2"}, childIDs(entries[2]))
	assert.Equal(t, []string{"o1"}, childIDs(entries[3]))
	assert.Equal(t, []string{"u3"}, childIDs(entries[4]))
}

func TestGroupTurnsPreservesMultiset(t *testing.T) {
	a, b := &Group{ID: "a"}, &Group{ID: "b"}
	turns := []Turn{
		grouped("1", a), grouped("2", nil), grouped("3", b), grouped("4", a),
		grouped("5", nil), grouped("6", b), grouped("7", a), grouped("8", nil),
	}

	entries := GroupTurns(turns)
	flat := Flatten(entries)

	assert.ElementsMatch(t, turns, flat)
	assert.Len(t, flat, len(turns))
	// ungrouped order and in-group order follow the input
	assert.Equal(t, []string{"1", "4", "7"}, childIDs(entries[0]))
	assert.Equal(t, []string{"2"}, childIDs(entries[1]))
	assert.Equal(t, []string{"3", "6"}, childIDs(entries[2]))
	assert.Equal(t, []string{"5"}, childIDs(entries[3]))
	assert.Equal(t, []string{"8"}, childIDs(entries[4]))
}

func TestGroupTurnsIdentityIsTheIDString(t *testing.T) {
	turns := []Turn{
		{ID: "x", GroupID: "g", Group: &Group{ID: "g", Name: "First"}},
		{ID: "y", GroupID: "g", Group: &Group{ID: "g", Name: "Second"}},
	}

	entries := GroupTurns(turns)

	require.Len(t, entries, 1)
	assert.Equal(t, []string{"x", "y"}, childIDs(entries[0]))
}

func TestGroupTurnsMetadata(t *testing.T) {
	turns := []Turn{
		{ID: "1", GroupID: "g", Group: &Group{ID: "g", Finished: false}},
		{ID: "2", GroupID: "g", Group: &Group{ID: "g", Name: "Refactor", Color: "#ff0000"}},
		{ID: "3", GroupID: "g", Group: &Group{ID: "g", Name: "Renamed", Color: "#00ff00", Finished: true}},
		{ID: "4", GroupID: "g"},
	}

	entries := GroupTurns(turns)

	require.Len(t, entries, 1)
	group := entries[0].(*GroupedTurn).Group
	assert.Equal(t, "Refactor", group.Name)
	assert.Equal(t, "#ff0000", group.Color)
	assert.True(t, group.Finished)
}

func TestGroupTurnsEdgeCases(t *testing.T) {
	assert.Empty(t, GroupTurns(nil))
	assert.Empty(t, GroupTurns([]Turn{}))

	entries := GroupTurns([]Turn{{ID: "blank", GroupID: "   "}})
	require.Len(t, entries, 1)
	_, isTurn := entries[0].(Turn)
	assert.True(t, isTurn)
}

func TestGroupDisplayName(t *testing.T) {
	assert.Equal(t, "Group", Group{ID: "g"}.DisplayName())
	assert.Equal(t, "Planning", Group{ID: "g", Name: "Planning"}.DisplayName())
}
