package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDiffBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want DiffBlock
	}{
		{
			name: "complete block",
			text: "<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REPLACE",
			want: DiffBlock{Old: "foo\n", New: "bar", Phase: PhaseComplete},
		},
		{
			name: "only search side",
			text: "<<<<<<< SEARCH\nfoo",
			want: DiffBlock{Old: "foo", Phase: PhaseSearch},
		},
		{
			name: "no start marker",
			text: "foo\n=======\nbar",
			want: DiffBlock{},
		},
		{
			name: "preamble discarded",
			text: "I will change main.go:\n\n<<<<<<< SEARCH\nold line\n=======\nnew line\n>>>>>>> REPLACE\n",
			want: DiffBlock{Old: "old line\n", New: "new line", Phase: PhaseComplete},
		},
		{
			name: "replace side streaming",
			text: "<<<<<<< SEARCH\nfoo\n=======\nba",
			want: DiffBlock{Old: "foo\n", New: "ba", Phase: PhaseReplace},
		},
		{
			name: "divider line not terminated yet",
			text: "<<<<<<< SEARCH\nfoo\n=======",
			want: DiffBlock{Old: "foo\n", Phase: PhaseSearch},
		},
		{
			name: "divider just arrived",
			text: "<<<<<<< SEARCH\nfoo\n=======\n",
			want: DiffBlock{Old: "foo\n", Phase: PhaseReplace},
		},
		{
			name: "ten equals signs are content",
			text: "<<<<<<< SEARCH\nfoo\n==========\nbar",
			want: DiffBlock{Old: "foo\n==========\nbar", Phase: PhaseSearch},
		},
		{
			name: "partial divider held back",
			text: "<<<<<<< SEARCH\nfoo\n===",
			want: DiffBlock{Old: "foo\n", Phase: PhaseSearch},
		},
		{
			name: "partial end marker held back",
			text: "<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REP",
			want: DiffBlock{Old: "foo\n", New: "bar", Phase: PhaseReplace},
		},
		{
			name: "empty sides",
			text: "<<<<<<< SEARCH\n=======\n>>>>>>> REPLACE",
			want: DiffBlock{Phase: PhaseComplete},
		},
		{
			name: "multi line sides keep inner newlines",
			text: "<<<<<<< SEARCH\na\nb\n=======\nc\n\nd\n>>>>>>> REPLACE",
			want: DiffBlock{Old: "a\nb\n", New: "c\n\nd", Phase: PhaseComplete},
		},
		{
			name: "divider before start marker ignored",
			text: "=======\n<<<<<<< SEARCH\nfoo",
			want: DiffBlock{Old: "foo", Phase: PhaseSearch},
		},
		{
			name: "trailing text after block ignored",
			text: "<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REPLACE\nDone.",
			want: DiffBlock{Old: "foo\n", New: "bar", Phase: PhaseComplete},
		},
		{
			name: "crlf line endings",
			text: "<<<<<<< SEARCH\r\nfoo\r\n=======\r\nbar\r\n>>>>>>> REPLACE\r\n",
			want: DiffBlock{Old: "foo\r\n", New: "bar", Phase: PhaseComplete},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDiffBlock(tt.text))
		})
	}
}

func TestExtractDiffBlockIsIdempotent(t *testing.T) {
	text := "<<<<<<< SEARCH\nfoo\n=======\nbar"
	assert.Equal(t, ExtractDiffBlock(text), ExtractDiffBlock(text))
}

func TestExtractDiffBlockStreamingIsPrefixConsistent(t *testing.T) {
	finals := []string{
		"<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REPLACE",
		"<<<<<<< SEARCH\nif a == b {\n\treturn\n}\n=======\nif a != b {\n\treturn nil\n}\n\n>>>>>>> REPLACE\n",
		"intro\n<<<<< SEARCH main.go\nx := 1\n=====\nx := 2\ny := 3\n>>>>> REPLACE",
		"<<<<<<< SEARCH\nfoo\n==========\n=======\nbar\n>>>>>>> REPLACE",
	}

	for _, final := range finals {
		want := ExtractDiffBlock(final)
		assert.Equal(t, PhaseComplete, want.Phase)

		start := searchMarker.FindStringIndex(final)[1]
		prevPhase := PhaseNone
		for i := start; i <= len(final); i++ {
			got := ExtractDiffBlock(final[:i])
			assert.Truef(t, strings.HasPrefix(want.Old, got.Old), "old %q not a prefix of %q at %d", got.Old, want.Old, i)
			assert.Truef(t, strings.HasPrefix(want.New, got.New), "new %q not a prefix of %q at %d", got.New, want.New, i)
			assert.GreaterOrEqual(t, got.Phase, prevPhase)
			prevPhase = got.Phase
		}
	}
}
