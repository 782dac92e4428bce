package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(internal.CreateTestTranscript("s1"), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Test Transcript\n"))
	assert.Contains(t, out, "**Session:** s1")
	assert.Contains(t, out, "**Turns:** 4")
	assert.Contains(t, out, "**Groups:** 1")
	assert.Contains(t, out, "### Edit main.go")
	assert.Contains(t, out, "*Group g1, running*")
	assert.Contains(t, out, "**Group usage:** gpt-4o  → 250 sent  ← 40 received  $0.00300")
	assert.Contains(t, out, "> **info:** tests passed")

	assert.Contains(t, out, "```diff\n--- a/main.go\n+++ b/main.go\n")
	assert.Contains(t, out, "\n-hi\n")
	assert.Contains(t, out, "\n+hello")
	assert.NotContains(t, out, "<<<<<<< SEARCH")

	user := strings.Index(out, "Rename the greeting")
	group := strings.Index(out, "### Edit main.go")
	log := strings.Index(out, "tests passed")
	assert.Less(t, user, group)
	assert.Less(t, group, log)
}

func TestMarkdownExporter_UntitledAndTools(t *testing.T) {
	turns := []internal.Turn{
		{ID: "t1", Kind: internal.KindTool, Role: internal.RoleTool, Content: "ok", IsComplete: true,
			Tool: &internal.ToolCall{Server: "power", Name: "bash", Args: map[string]any{"command": "ls"}}},
		{ID: "c1", Kind: internal.KindCommandOutput, Command: "go test ./...", Content: "PASS\n", IsComplete: true},
		{ID: "u1", Kind: internal.KindUser, Role: internal.RoleUser, IsComplete: true},
	}
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(internal.NewReconstructor().Reconstruct("raw", turns), &buf))
	out := buf.String()

	assert.Contains(t, out, "# Session raw")
	assert.Contains(t, out, "**tool:** Power · Bash")
	assert.Contains(t, out, "\"command\": \"ls\"")
	assert.Contains(t, out, "```console\n$ go test ./...\nPASS\n```")
	assert.Contains(t, out, "*(empty message)*")
}

func TestMarkdownContentUnifiedDiff(t *testing.T) {
	out := markdownContent("patch:\n\n```\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n```\n")

	assert.Contains(t, out, "```diff\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n```")
}

func TestMarkdownContentThinking(t *testing.T) {
	out := markdownContent("---\n► **THINKING**\nhmm\n---\n► **ANSWER**\nDone")

	assert.Contains(t, out, "<summary>Thinking</summary>")
	assert.Contains(t, out, "hmm")
	assert.True(t, strings.HasSuffix(out, "Done"))
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold", "**bold**", "\\*\\*bold\\*\\*"},
		{"underscore", "__init__", "\\_\\_init\\_\\_"},
		{"code block untouched", "```\n**x**\n```", "```\n**x**\n```"},
		{"plain", "hello", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeMarkdown(tt.input))
		})
	}
}
