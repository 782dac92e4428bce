package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/agent-transcript/internal"
)

// JSONLExporter exports transcripts in JSONL format (one entry per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range entryRecords(transcript.Entries) {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode %s entry: %w", rec.Type, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
