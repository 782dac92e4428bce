// Package render draws transcripts for the terminal.
//
// A Renderer is not safe for concurrent use; it caches one markdown
// renderer per wrap width.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/agent-transcript/internal"
)

// Renderer turns grouped transcript entries into styled terminal text
type Renderer struct {
	opts     Options
	markdown map[int]*glamour.TermRenderer
}

// New creates a renderer
func New(opts Options) *Renderer {
	return &Renderer{
		opts:     opts,
		markdown: make(map[int]*glamour.TermRenderer),
	}
}

// Options returns the options the renderer was built with
func (r *Renderer) Options() Options {
	return r.opts
}

// RenderTranscript draws the header, every entry and the session usage
func (r *Renderer) RenderTranscript(t *internal.Transcript) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder

	name := t.Name
	if name == "" {
		name = t.SessionID
	}
	sb.WriteString(transcriptHeaderStyle.Render(fmt.Sprintf("💬 %s", name)))
	sb.WriteString("\n")

	meta := []string{fmt.Sprintf("Turns: %d", t.TurnCount)}
	if t.GroupCount > 0 {
		meta = append(meta, fmt.Sprintf("Groups: %d", t.GroupCount))
	}
	if t.SessionID != "" && t.SessionID != name {
		meta = append(meta, fmt.Sprintf("ID: %s", t.SessionID))
	}
	sb.WriteString(transcriptMetaStyle.Render(strings.Join(meta, " • ")))
	sb.WriteString("\n\n")

	sb.WriteString(r.RenderEntries(t.Entries))

	if usage := renderUsage(t.Usage); usage != "" {
		sb.WriteString(mutedStyle.Render("Session total: "))
		sb.WriteString(usage)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderEntries draws entries in order, separated by blank lines
func (r *Renderer) RenderEntries(entries []internal.Entry) string {
	var sb strings.Builder
	width := r.opts.width()
	for _, e := range entries {
		switch v := e.(type) {
		case internal.Turn:
			sb.WriteString(r.turn(v, width))
		case *internal.GroupedTurn:
			sb.WriteString(r.group(v, width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderGroup draws one group box
func (r *Renderer) RenderGroup(g *internal.GroupedTurn) string {
	return r.group(g, r.opts.width())
}

// RenderTurn draws one turn at full width
func (r *Renderer) RenderTurn(t internal.Turn) string {
	return r.turn(t, r.opts.width())
}

func (r *Renderer) group(g *internal.GroupedTurn, width int) string {
	color := groupColor(g.Group.ID, g.Group.Color)

	header := lipgloss.NewStyle().Bold(true).Foreground(color).Render(g.Group.DisplayName())
	if !g.Group.Finished {
		header += " " + mutedStyle.Render("● running")
	}

	inner := width - 2
	parts := []string{header}
	for _, child := range g.Children {
		parts = append(parts, r.turn(child, inner))
	}
	if usage := renderUsage(g.Usage()); usage != "" {
		parts = append(parts, usage)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1)
	return box.Render(strings.TrimRight(strings.Join(parts, "\n"), "\n")) + "\n"
}

// glamourFor returns a markdown renderer wrapping at width, or nil when
// markdown is disabled or glamour cannot be set up
func (r *Renderer) glamourFor(width int) *glamour.TermRenderer {
	if !r.opts.Markdown {
		return nil
	}
	if md, ok := r.markdown[width]; ok {
		return md
	}
	style := glamour.WithAutoStyle()
	if r.opts.MarkdownStyle != "" && r.opts.MarkdownStyle != "auto" {
		style = glamour.WithStandardStyle(r.opts.MarkdownStyle)
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		internal.LogWarn("Markdown rendering disabled: %v", err)
		md = nil
	}
	r.markdown[width] = md
	return md
}
