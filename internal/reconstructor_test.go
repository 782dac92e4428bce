package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct(t *testing.T) {
	turns := []Turn{
		CreateTestGroupedTurn("a", "plan", "g2", &UsageReport{SentTokens: 10, MessageCost: 0.01}),
		CreateTestTurn("b", "standalone"),
		CreateTestGroupedTurn("c", "edit", "g1", &UsageReport{SentTokens: 20, MessageCost: 0.02}),
		CreateTestGroupedTurn("d", "edit more", "g1", &UsageReport{SentTokens: 30, MessageCost: 0.03}),
	}

	transcript := NewReconstructor().Reconstruct("s1", turns)

	assert.Equal(t, "s1", transcript.SessionID)
	assert.Equal(t, 4, transcript.TurnCount)
	assert.Equal(t, 2, transcript.GroupCount)
	require.Len(t, transcript.Entries, 3)
	assert.Equal(t, turns, transcript.Turns)

	require.NotNil(t, transcript.Usage)
	assert.Equal(t, 30, transcript.Usage.SentTokens)
	assert.InDelta(t, 0.06, transcript.Usage.MessageCost, 1e-12)

	g1 := transcript.GroupUsage("g1")
	require.NotNil(t, g1)
	assert.Equal(t, 30, g1.SentTokens)
	assert.InDelta(t, 0.05, g1.MessageCost, 1e-12)
	assert.Nil(t, transcript.GroupUsage("missing"))
}

func TestReconstructEmpty(t *testing.T) {
	transcript := NewReconstructor().Reconstruct("empty", nil)

	assert.Zero(t, transcript.TurnCount)
	assert.Zero(t, transcript.GroupCount)
	assert.Empty(t, transcript.Entries)
	assert.Nil(t, transcript.Usage)
	assert.Empty(t, transcript.Groups())
}

func TestCreateTestTranscript(t *testing.T) {
	transcript := CreateTestTranscript("fixture")

	require.Len(t, transcript.Groups(), 1)
	group := transcript.Groups()[0]
	assert.Equal(t, "Edit main.go", group.Group.DisplayName())
	assert.Len(t, group.Children, 2)
	assert.InDelta(t, 0.003, group.Usage().MessageCost, 1e-12)
}
