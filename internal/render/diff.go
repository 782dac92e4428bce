package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/diffengine"
	"github.com/iksnae/agent-transcript/internal/highlight"
	"github.com/muesli/reflow/truncate"
)

// minRawColumn is the narrowest column the side by side raw fallback uses
const minRawColumn = 20

// RenderDiff draws old against new using the configured diff view
func (r *Renderer) RenderDiff(oldText, newText, language string, complete bool) string {
	return r.diff(oldText, newText, language, complete, r.opts.width())
}

func (r *Renderer) diff(oldText, newText, language string, complete bool, width int) string {
	res := diffengine.Compute(oldText, newText, r.opts.diffOptions())
	if res.Err != nil {
		internal.LogDebug("Diff failed, showing raw text: %v", res.Err)
		return rawPair(res.Old, res.New, width)
	}
	if res.Empty() {
		if !complete {
			return mutedStyle.Render("…")
		}
		return mutedStyle.Render("No changes")
	}

	oldLines := r.highlighted(oldText, language)
	newLines := r.highlighted(newText, language)

	var sb strings.Builder
	sb.WriteString(statsLine(res.Stats))
	sb.WriteString("\n")
	for _, h := range res.Hunks {
		if len(res.Hunks) > 1 {
			sb.WriteString(hunkHeaderStyle.Render(h.Header()))
			sb.WriteString("\n")
		}
		if r.opts.splitDiff() {
			sb.WriteString(splitHunk(h, oldLines, newLines, width))
		} else {
			sb.WriteString(unifiedHunk(h, oldLines, newLines))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// unified draws unified diff text, or the raw text when it does not parse
func (r *Renderer) unified(text, language string, width int) string {
	files, err := diffengine.ParseUnified(text)
	if err != nil {
		internal.LogDebug("Unified diff did not parse, showing raw text: %v", err)
		return strings.TrimRight(text, "\n")
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(fileLabelStyle.Render(f.Path()))
		sb.WriteString("  ")
		sb.WriteString(statsLine(f.Stats()))
		sb.WriteString("\n")

		lang := language
		if lang == "" {
			lang = highlight.LanguageFromPath(f.Path())
		}
		for _, h := range f.Hunks {
			sb.WriteString(hunkHeaderStyle.Render(h.Header()))
			sb.WriteString("\n")
			if r.opts.splitDiff() {
				sb.WriteString(splitHunk(h, r.lineHighlighter(lang), r.lineHighlighter(lang), width))
			} else {
				sb.WriteString(unifiedHunk(h, r.lineHighlighter(lang), r.lineHighlighter(lang)))
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// lineSource returns the display text for a 1-based line number, falling
// back to the raw content
type lineSource func(lineNo int, raw string) string

func (r *Renderer) highlighted(text, language string) lineSource {
	if language == "" || text == "" {
		return plainLine
	}
	lines := highlight.HighlightLines(text, language, r.opts.HighlightStyle)
	return func(n int, raw string) string {
		if n < 1 || n > len(lines) {
			return raw
		}
		return lines[n-1]
	}
}

func (r *Renderer) lineHighlighter(language string) lineSource {
	if language == "" {
		return plainLine
	}
	return func(_ int, raw string) string {
		return strings.TrimRight(highlight.Highlight(raw, language, r.opts.HighlightStyle), "\n")
	}
}

func plainLine(_ int, raw string) string { return raw }

func statsLine(s diffengine.Stats) string {
	return addedStyle.Render(fmt.Sprintf("+%d", s.Added)) + " " + removedStyle.Render(fmt.Sprintf("-%d", s.Removed))
}

func unifiedHunk(h diffengine.Hunk, oldSrc, newSrc lineSource) string {
	var sb strings.Builder
	for _, l := range h.Lines {
		switch l.Kind {
		case diffengine.LineAdded:
			sb.WriteString(addedStyle.Render("+ "))
			sb.WriteString(newSrc(l.NewLine, l.Content))
		case diffengine.LineRemoved:
			sb.WriteString(removedStyle.Render("- "))
			sb.WriteString(oldSrc(l.OldLine, l.Content))
		default:
			sb.WriteString("  ")
			sb.WriteString(newSrc(l.NewLine, l.Content))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// splitRow is one line of the side-by-side view; a nil side is blank
type splitRow struct {
	left, right *diffengine.Line
}

func splitRows(h diffengine.Hunk) []splitRow {
	var rows []splitRow
	var removed, added []*diffengine.Line
	flush := func() {
		n := max(len(removed), len(added))
		for i := 0; i < n; i++ {
			var row splitRow
			if i < len(removed) {
				row.left = removed[i]
			}
			if i < len(added) {
				row.right = added[i]
			}
			rows = append(rows, row)
		}
		removed, added = nil, nil
	}
	for i := range h.Lines {
		l := &h.Lines[i]
		switch l.Kind {
		case diffengine.LineRemoved:
			if len(added) > 0 {
				flush()
			}
			removed = append(removed, l)
		case diffengine.LineAdded:
			added = append(added, l)
		default:
			flush()
			rows = append(rows, splitRow{left: l, right: l})
		}
	}
	flush()
	return rows
}

func splitHunk(h diffengine.Hunk, oldSrc, newSrc lineSource, width int) string {
	col := (width - 3) / 2
	if col < 10 {
		col = 10
	}
	cell := func(l *diffengine.Line, lineNo int, src lineSource) string {
		if l == nil {
			return strings.Repeat(" ", col)
		}
		marker := "  "
		switch l.Kind {
		case diffengine.LineAdded:
			marker = addedStyle.Render("+ ")
		case diffengine.LineRemoved:
			marker = removedStyle.Render("- ")
		}
		text := fmt.Sprintf("%s%s%s", mutedStyle.Render(fmt.Sprintf("%4d ", lineNo)), marker, src(lineNo, l.Content))
		text = truncate.StringWithTail(text, uint(col), "…")
		if pad := col - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		return text
	}

	var sb strings.Builder
	for _, row := range splitRows(h) {
		var oldNo, newNo int
		if row.left != nil {
			oldNo = row.left.OldLine
		}
		if row.right != nil {
			newNo = row.right.NewLine
		}
		sb.WriteString(cell(row.left, oldNo, oldSrc))
		sb.WriteString(mutedStyle.Render(" │ "))
		sb.WriteString(strings.TrimRight(cell(row.right, newNo, newSrc), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// rawPair shows old and new text next to each other when no diff is
// available, or one above the other when the width is too narrow
func rawPair(oldText, newText string, width int) string {
	oldText = strings.TrimRight(oldText, "\n")
	newText = strings.TrimRight(newText, "\n")

	col := (width - 3) / 2
	if col < minRawColumn {
		style := lipgloss.NewStyle().Width(width)
		return lipgloss.JoinVertical(lipgloss.Left,
			removedStyle.Render("Original"),
			style.Render(oldText),
			addedStyle.Render("Updated"),
			style.Render(newText),
		)
	}

	style := lipgloss.NewStyle().Width(col)
	left := lipgloss.JoinVertical(lipgloss.Left, removedStyle.Render("Original"), style.Render(oldText))
	right := lipgloss.JoinVertical(lipgloss.Left, addedStyle.Render("Updated"), style.Render(newText))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, mutedStyle.Render(" │ "), right)
}
