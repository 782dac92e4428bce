// Package diffengine computes and parses line diffs for the renderer.
//
// The line diff itself is delegated to go-udiff; unified diff text coming
// from agents is parsed with sourcegraph's go-diff. Neither path panics:
// engine failures come back as a Result carrying the raw text so callers
// can show old and new side by side instead.
package diffengine

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// DefaultContextLines shows whole edit blocks, which are usually short
const DefaultContextLines = 100

// LineKind is the role of a line inside a hunk
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff marker for this kind
func (k LineKind) Prefix() string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Line is one diff line without its trailing newline.
// OldLine / NewLine are 1-based and zero on the side the line is absent from.
type Line struct {
	Kind    LineKind
	Content string
	OldLine int
	NewLine int
}

// Hunk is a contiguous run of changes with surrounding context
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Header returns the "@@ -a,b +c,d @@" line for the hunk
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// Stats counts changed lines
type Stats struct {
	Added   int
	Removed int
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Options tunes Compute
type Options struct {
	// ContextLines around each change; zero or negative means DefaultContextLines
	ContextLines int
}

// Result is the outcome of Compute. On failure Err is set and Old / New
// still hold the inputs.
type Result struct {
	Hunks []Hunk
	Stats Stats
	Old   string
	New   string
	Err   error
}

// Empty reports a successful diff with no changes
func (r Result) Empty() bool {
	return r.Err == nil && len(r.Hunks) == 0
}

// Unified formats the result as unified diff text
func (r Result) Unified(oldLabel, newLabel string) string {
	if len(r.Hunks) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", oldLabel, newLabel)
	for _, h := range r.Hunks {
		sb.WriteString(h.Header())
		sb.WriteByte('\n')
		for _, l := range h.Lines {
			sb.WriteString(l.Kind.Prefix())
			sb.WriteString(l.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// EngineError reports a failure inside the diff library
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("diff engine: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Compute diffs old against new line by line
func Compute(oldText, newText string, opts Options) (res Result) {
	res = Result{Old: oldText, New: newText}
	defer func() {
		if r := recover(); r != nil {
			res.Hunks = nil
			res.Stats = Stats{}
			res.Err = &EngineError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if oldText == newText {
		return res
	}

	ctx := opts.ContextLines
	if ctx <= 0 {
		ctx = DefaultContextLines
	}

	edits := udiff.Strings(oldText, newText)
	ud, err := udiff.ToUnifiedDiff("old", "new", oldText, edits, ctx)
	if err != nil {
		res.Err = &EngineError{Err: err}
		return res
	}

	for _, uh := range ud.Hunks {
		h := Hunk{OldStart: uh.FromLine, NewStart: uh.ToLine}
		oldNo, newNo := uh.FromLine, uh.ToLine
		for _, ul := range uh.Lines {
			l := Line{Content: strings.TrimSuffix(ul.Content, "\n")}
			switch ul.Kind {
			case udiff.Delete:
				l.Kind = LineRemoved
				l.OldLine = oldNo
				oldNo++
				h.OldLines++
				res.Stats.Removed++
			case udiff.Insert:
				l.Kind = LineAdded
				l.NewLine = newNo
				newNo++
				h.NewLines++
				res.Stats.Added++
			default:
				l.Kind = LineContext
				l.OldLine = oldNo
				l.NewLine = newNo
				oldNo++
				newNo++
				h.OldLines++
				h.NewLines++
			}
			h.Lines = append(h.Lines, l)
		}
		res.Hunks = append(res.Hunks, h)
	}
	return res
}
