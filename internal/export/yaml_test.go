package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(internal.CreateTestTranscript("s1"), &buf))

	assert.Contains(t, buf.String(), "session_id: s1")

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 4, doc.TurnCount)
	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "g1", doc.Entries[1].Group.ID)
	assert.Len(t, doc.Entries[1].Children, 2)
}
