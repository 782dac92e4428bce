package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/diffengine"
	"github.com/iksnae/agent-transcript/internal/render"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	var sb strings.Builder

	title := transcript.Name
	if title == "" {
		title = "Session " + transcript.SessionID
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**Session:** %s  \n", transcript.SessionID)
	fmt.Fprintf(&sb, "**Turns:** %d  \n", transcript.TurnCount)
	fmt.Fprintf(&sb, "**Groups:** %d\n\n", transcript.GroupCount)
	if usage := render.UsageLine(transcript.Usage); usage != "" {
		fmt.Fprintf(&sb, "**Usage:** %s\n\n", usage)
	}

	sb.WriteString("---\n\n")
	sb.WriteString("## Transcript\n\n")

	for i, entry := range transcript.Entries {
		switch v := entry.(type) {
		case internal.Turn:
			writeTurn(&sb, v)
		case *internal.GroupedTurn:
			writeGroup(&sb, v)
		}
		if i < len(transcript.Entries)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

func writeGroup(sb *strings.Builder, g *internal.GroupedTurn) {
	status := "running"
	if g.Group.Finished {
		status = "finished"
	}
	fmt.Fprintf(sb, "### %s\n\n", g.Group.DisplayName())
	fmt.Fprintf(sb, "*Group %s, %s*\n\n", g.Group.ID, status)
	for _, child := range g.Children {
		writeTurn(sb, child)
	}
	if usage := render.UsageLine(g.Usage()); usage != "" {
		fmt.Fprintf(sb, "**Group usage:** %s\n\n", usage)
	}
}

func writeTurn(sb *strings.Builder, t internal.Turn) {
	switch t.Kind {
	case internal.KindLog:
		fmt.Fprintf(sb, "> **%s:** %s\n\n", t.Level, escapeMarkdown(t.Content))
		return
	case internal.KindCommandOutput:
		fmt.Fprintf(sb, "```console\n$ %s\n%s\n```\n\n", t.Command, strings.TrimRight(t.Content, "\n"))
		return
	case internal.KindLoading:
		return
	case internal.KindTool:
		writeTool(sb, t)
		return
	}

	actor := string(t.Role)
	if actor == "" {
		actor = string(t.Kind)
	}
	if t.Kind == internal.KindReflected {
		actor += " (reflected)"
	}
	if t.Mode != "" {
		actor += fmt.Sprintf(" [%s]", t.Mode)
	}
	fmt.Fprintf(sb, "**%s:**\n\n", actor)
	if strings.TrimSpace(t.Content) == "" {
		sb.WriteString("*(empty message)*\n\n")
	} else {
		sb.WriteString(markdownContent(t.Content))
		sb.WriteString("\n\n")
	}
	if usage := render.UsageLine(t.Usage); usage != "" {
		fmt.Fprintf(sb, "*%s*\n\n", usage)
	}
}

func writeTool(sb *strings.Builder, t internal.Turn) {
	fmt.Fprintf(sb, "**tool:** %s\n\n", render.ToolLabel(t.Tool))
	if t.Tool != nil && len(t.Tool.Args) > 0 {
		if args, err := json.MarshalIndent(t.Tool.Args, "", "  "); err == nil {
			fmt.Fprintf(sb, "```json\n%s\n```\n\n", args)
		}
	}
	if result := strings.TrimSpace(t.Content); result != "" {
		fmt.Fprintf(sb, "Result:\n\n```\n%s\n```\n\n", result)
	}
}

// markdownContent rewrites SEARCH/REPLACE fences as ```diff fences and
// escapes the prose around them
func markdownContent(content string) string {
	if ta, ok := internal.SplitThinking(content); ok {
		out := "<details><summary>Thinking</summary>\n\n" + escapeMarkdown(ta.Thinking) + "\n\n</details>"
		if ta.HasAnswer {
			out += "\n\n" + markdownContent(ta.Answer)
		}
		return out
	}

	var parts []string
	for _, seg := range internal.SplitSegments(content) {
		if seg.Kind == internal.SegmentText {
			parts = append(parts, escapeMarkdown(strings.Trim(seg.Text, "\n")))
			continue
		}
		code := strings.TrimRight(seg.Text, "\n")
		switch internal.Classify(seg.Text) {
		case internal.EncodingCustomDiff:
			block := internal.ExtractDiffBlock(seg.Text)
			file := seg.File
			if file == "" {
				file = "file"
			}
			res := diffengine.Compute(block.Old, block.New, diffengine.Options{})
			if res.Err == nil && !res.Empty() {
				code = strings.TrimRight(res.Unified("a/"+file, "b/"+file), "\n")
				parts = append(parts, fileLine(seg.File)+"```diff\n"+code+"\n```")
				continue
			}
		case internal.EncodingUnifiedDiff:
			parts = append(parts, fileLine(seg.File)+"```diff\n"+code+"\n```")
			continue
		}
		parts = append(parts, fileLine(seg.File)+"```"+seg.Language+"\n"+code+"\n```")
	}
	return strings.Join(parts, "\n\n")
}

func fileLine(file string) string {
	if file == "" {
		return ""
	}
	return "`" + file + "`\n\n"
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
