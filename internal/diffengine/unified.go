package diffengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ErrNoFiles is returned when unified diff text holds no file sections
var ErrNoFiles = errors.New("no file diffs found")

// FileDiff is one file section of a unified diff
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// Stats counts added and removed lines across all hunks
func (f FileDiff) Stats() Stats {
	var s Stats
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				s.Added++
			case LineRemoved:
				s.Removed++
			}
		}
	}
	return s
}

// Path returns the most useful name for the file
func (f FileDiff) Path() string {
	if f.NewPath != "" && f.NewPath != "/dev/null" {
		return f.NewPath
	}
	return f.OldPath
}

// ParseUnified parses unified diff text, possibly covering several files
func ParseUnified(text string) (files []FileDiff, err error) {
	defer func() {
		if r := recover(); r != nil {
			files = nil
			err = &EngineError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	parsed, err := diff.ParseMultiFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}
	if len(parsed) == 0 {
		return nil, ErrNoFiles
	}

	files = make([]FileDiff, 0, len(parsed))
	for _, fd := range parsed {
		f := FileDiff{
			OldPath: stripPathPrefix(fd.OrigName, "a/"),
			NewPath: stripPathPrefix(fd.NewName, "b/"),
		}
		for _, dh := range fd.Hunks {
			f.Hunks = append(f.Hunks, convertHunk(dh))
		}
		files = append(files, f)
	}
	return files, nil
}

func convertHunk(dh *diff.Hunk) Hunk {
	h := Hunk{
		OldStart: int(dh.OrigStartLine),
		OldLines: int(dh.OrigLines),
		NewStart: int(dh.NewStartLine),
		NewLines: int(dh.NewLines),
	}
	oldNo, newNo := h.OldStart, h.NewStart
	body := strings.TrimSuffix(string(dh.Body), "\n")
	if body == "" {
		return h
	}
	for _, raw := range strings.Split(body, "\n") {
		if raw == "" {
			// blank context line whose leading space was stripped
			raw = " "
		}
		l := Line{Content: raw[1:]}
		switch raw[0] {
		case '+':
			l.Kind = LineAdded
			l.NewLine = newNo
			newNo++
		case '-':
			l.Kind = LineRemoved
			l.OldLine = oldNo
			oldNo++
		case '\\':
			// "\ No newline at end of file"
			continue
		default:
			l.Kind = LineContext
			l.OldLine = oldNo
			l.NewLine = newNo
			oldNo++
			newNo++
		}
		h.Lines = append(h.Lines, l)
	}
	return h
}

func stripPathPrefix(name, prefix string) string {
	return strings.TrimPrefix(name, prefix)
}
