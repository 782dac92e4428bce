package render

import (
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/highlight"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// RenderContent draws turn text: prose as markdown, fenced code as
// highlighted code or diffs. complete is false while the turn streams.
func (r *Renderer) RenderContent(content string, complete bool) string {
	return r.content(content, complete, r.opts.width())
}

func (r *Renderer) content(content string, complete bool, width int) string {
	if ta, ok := internal.SplitThinking(content); ok {
		var sb strings.Builder
		sb.WriteString(mutedStyle.Render("💭 Thinking"))
		sb.WriteString("\n")
		sb.WriteString(thinkingStyle.Render(indent.String(wordwrap.String(ta.Thinking, width-2), 2)))
		sb.WriteString("\n")
		if ta.HasAnswer {
			sb.WriteString("\n")
			sb.WriteString(r.segments(ta.Answer, complete, width))
		} else if !complete {
			sb.WriteString(mutedStyle.Render("  …"))
			sb.WriteString("\n")
		}
		return sb.String()
	}
	return r.segments(content, complete, width)
}

func (r *Renderer) segments(content string, complete bool, width int) string {
	var sb strings.Builder
	for _, seg := range internal.SplitSegments(content) {
		switch seg.Kind {
		case internal.SegmentCode:
			sb.WriteString(r.code(seg.Text, seg.Language, seg.File, complete && seg.Closed, width))
		default:
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			sb.WriteString(r.prose(seg.Text, width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// prose renders markdown, or word-wrapped plain text when markdown is off
func (r *Renderer) prose(text string, width int) string {
	text = strings.Trim(text, "\n")
	if md := r.glamourFor(width); md != nil {
		out, err := md.Render(text)
		if err == nil {
			return strings.Trim(out, "\n")
		}
		internal.LogDebug("Markdown render failed, using plain text: %v", err)
	}
	return wordwrap.String(text, width)
}

// code draws one fenced block, picking the diff or plain view by encoding
func (r *Renderer) code(text, language, file string, complete bool, width int) string {
	if language == "" {
		language = highlight.LanguageFromPath(file)
	}
	inner := width - 4

	var body string
	switch internal.Classify(text) {
	case internal.EncodingCustomDiff:
		block := internal.ExtractDiffBlock(text)
		body = r.diff(block.Old, block.New, language, complete && block.Phase == internal.PhaseComplete, inner)
	case internal.EncodingUnifiedDiff:
		body = r.unified(text, language, inner)
	default:
		body = r.plainCode(text, language)
	}
	return r.codeBox(file, body, complete, width)
}

func (r *Renderer) plainCode(text, language string) string {
	text = strings.TrimRight(text, "\n")
	if language == "" {
		return text
	}
	return strings.Join(highlight.HighlightLines(text, language, r.opts.HighlightStyle), "\n")
}

func (r *Renderer) codeBox(file, body string, complete bool, width int) string {
	var head []string
	if file != "" {
		head = append(head, fileLabelStyle.Render("📄 "+file))
	}
	if !complete {
		head = append(head, mutedStyle.Render("⋯ streaming"))
	}
	if len(head) > 0 {
		body = strings.Join(head, "  ") + "\n" + body
	}
	return codeBoxStyle.Width(width - 2).Render(body)
}
