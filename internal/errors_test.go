package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypes(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "storage",
			err:      &StorageError{Path: "/tmp/t.db", Op: "open", Err: cause},
			contains: []string{"storage error", "open", "/tmp/t.db"},
		},
		{
			name:     "parse",
			err:      &ParseError{Source: "records", Key: "line 3", Err: cause},
			contains: []string{"parse error", "records", "line 3"},
		},
		{
			name:     "reconstruction",
			err:      &ReconstructionError{SessionID: "s1", Err: cause},
			contains: []string{"reconstruction error", "s1"},
		},
		{
			name:     "export",
			err:      &ExportError{Format: "jsonl", Path: "out.jsonl", Err: cause},
			contains: []string{"export error", "jsonl", "out.jsonl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Error(), s)
			}
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}
