package export

import (
	"fmt"
	"io"

	"github.com/iksnae/agent-transcript/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(transcript *internal.Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// Entry types written by the structured exporters
const (
	EntryTurn  = "turn"
	EntryGroup = "group"
)

// EntryRecord is the serialized form of one transcript entry. Turn is set
// for ungrouped turns; Group, Children and Usage for groups.
type EntryRecord struct {
	Type     string                `json:"type" yaml:"type"`
	Turn     *internal.Turn        `json:"turn,omitempty" yaml:"turn,omitempty"`
	Group    *internal.Group       `json:"group,omitempty" yaml:"group,omitempty"`
	Children []internal.Turn       `json:"children,omitempty" yaml:"children,omitempty"`
	Usage    *internal.UsageReport `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// Document is the serialized form of a whole transcript
type Document struct {
	SessionID  string                `json:"sessionId" yaml:"session_id"`
	Name       string                `json:"name,omitempty" yaml:"name,omitempty"`
	TurnCount  int                   `json:"turnCount" yaml:"turn_count"`
	GroupCount int                   `json:"groupCount" yaml:"group_count"`
	Usage      *internal.UsageReport `json:"usage,omitempty" yaml:"usage,omitempty"`
	Entries    []EntryRecord         `json:"entries" yaml:"entries"`
}

// NewDocument converts a transcript into its serialized form
func NewDocument(t *internal.Transcript) Document {
	return Document{
		SessionID:  t.SessionID,
		Name:       t.Name,
		TurnCount:  t.TurnCount,
		GroupCount: t.GroupCount,
		Usage:      t.Usage,
		Entries:    entryRecords(t.Entries),
	}
}

func entryRecords(entries []internal.Entry) []EntryRecord {
	records := make([]EntryRecord, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case internal.Turn:
			turn := v
			records = append(records, EntryRecord{Type: EntryTurn, Turn: &turn})
		case *internal.GroupedTurn:
			group := v.Group
			records = append(records, EntryRecord{
				Type:     EntryGroup,
				Group:    &group,
				Children: v.Children,
				Usage:    v.Usage(),
			})
		}
	}
	return records
}
