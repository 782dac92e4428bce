package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/highlight"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Well-known tool servers and tools that get a dedicated view
const (
	PowerServer     = "power"
	ToolFileEdit    = "file_edit"
	ToolFileWrite   = "file_write"
	ToolBash        = "bash"
	HelpersServer   = "helpers"
	ToolNoSuchTool  = "no_such_tool"
	ToolInvalidArgs = "invalid_tool_arguments"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// FormatToolName turns "file_edit" or "run-task" into "File Edit" / "Run Task"
func FormatToolName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCaser.String(name)
}

// ToolLabel returns the "Server · Tool" header of a tool turn
func ToolLabel(tool *internal.ToolCall) string {
	if tool == nil {
		return "Tool"
	}
	if tool.Server == "" {
		return FormatToolName(tool.Name)
	}
	return fmt.Sprintf("%s · %s", FormatToolName(tool.Server), FormatToolName(tool.Name))
}

func (r *Renderer) turn(t internal.Turn, width int) string {
	switch t.Kind {
	case internal.KindUser:
		return r.labelled(userLabelStyle.Render("👤 User"), t, width)
	case internal.KindResponse:
		label := assistantLabelStyle.Render("🤖 Assistant")
		if t.Mode != "" {
			label += " " + mutedStyle.Render("("+t.Mode+")")
		}
		return r.labelled(label, t, width)
	case internal.KindTool:
		return r.tool(t, width)
	case internal.KindLog:
		return r.log(t.Level, t.Content, width)
	case internal.KindReflected:
		return reflected(t, width)
	case internal.KindCommandOutput:
		return r.commandOutput(t, width)
	case internal.KindLoading:
		text := t.Content
		if text == "" {
			text = "Thinking…"
		}
		return mutedStyle.Render("⋯ "+text) + "\n"
	default:
		return r.labelled(mutedStyle.Render(string(t.Kind)), t, width)
	}
}

func (r *Renderer) labelled(label string, t internal.Turn, width int) string {
	var sb strings.Builder
	sb.WriteString(label)
	if !t.IsComplete {
		sb.WriteString(" " + mutedStyle.Render("⋯"))
	}
	sb.WriteString("\n")
	if strings.TrimSpace(t.Content) == "" {
		sb.WriteString(mutedStyle.Render("(empty message)"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(r.content(t.Content, t.IsComplete, width))
	}
	if usage := renderUsage(t.Usage); usage != "" {
		sb.WriteString(usage)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) log(level internal.LogLevel, content string, width int) string {
	lvl := string(level)
	style, ok := logStyles[lvl]
	if !ok {
		lvl = string(internal.LevelInfo)
		style = logStyles[lvl]
	}
	return style.Render(logIcons[lvl]+" "+wordwrap.String(content, width-2)) + "\n"
}

func reflected(t internal.Turn, width int) string {
	lines := strings.Split(strings.TrimSpace(t.Content), "\n")
	preview := truncateLine(lines[0], width-20)
	summary := fmt.Sprintf("▸ Reflected message: %s", preview)
	if len(lines) > 1 {
		summary += fmt.Sprintf(" (%d lines)", len(lines))
	}
	return mutedStyle.Render(summary) + "\n"
}

func (r *Renderer) commandOutput(t internal.Turn, width int) string {
	var sb strings.Builder
	sb.WriteString(mutedStyle.Render("$ ") + t.Command)
	sb.WriteString("\n")
	if out := strings.TrimRight(t.Content, "\n"); out != "" {
		sb.WriteString(codeBoxStyle.Width(width - 2).Render(out))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) tool(t internal.Turn, width int) string {
	tool := t.Tool
	if tool == nil {
		tool = &internal.ToolCall{}
	}

	if tool.Server == HelpersServer {
		content := t.Content
		switch tool.Name {
		case ToolNoSuchTool:
			content = fmt.Sprintf("Tool not found: %s", stringArg(tool.Args, "toolName"))
		case ToolInvalidArgs:
			content = fmt.Sprintf("Invalid arguments for tool: %s", stringArg(tool.Args, "toolName"))
		}
		return r.log(internal.LevelInfo, content, width)
	}

	var sb strings.Builder
	header := toolLabelStyle.Render("🔧 " + ToolLabel(tool))
	if tool.Server == PowerServer && (tool.Name == ToolFileEdit || tool.Name == ToolFileWrite) {
		if file := fileBase(stringArg(tool.Args, "filePath")); file != "" {
			header += " " + fileLabelStyle.Render(file)
		}
	}
	if tool.Server == PowerServer && tool.Name == ToolBash {
		if cmd := stringArg(tool.Args, "command"); cmd != "" {
			header += " " + mutedStyle.Render("$ "+cmd)
		}
	}
	if t.Executing() {
		header += " " + mutedStyle.Render("⋯ running")
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	switch {
	case tool.Server == PowerServer && tool.Name == ToolFileEdit:
		sb.WriteString(r.fileEdit(tool.Args, width))
	case tool.Server == PowerServer && tool.Name == ToolFileWrite:
		file := stringArg(tool.Args, "filePath")
		sb.WriteString(r.codeBox(file, r.plainCode(stringArg(tool.Args, "content"), highlight.LanguageFromPath(file)), true, width))
		sb.WriteString("\n")
	case len(tool.Args) > 0:
		if args, err := json.Marshal(tool.Args); err == nil {
			sb.WriteString(mutedStyle.Render("Arguments"))
			sb.WriteString("\n")
			sb.WriteString(codeBoxStyle.Width(width - 2).Render(strings.TrimRight(string(pretty.Pretty(args)), "\n")))
			sb.WriteString("\n")
		}
	}

	if !t.Executing() {
		sb.WriteString(toolResult(t.Content, width))
	}
	if usage := renderUsage(t.Usage); usage != "" {
		sb.WriteString(usage)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) fileEdit(args map[string]any, width int) string {
	file := stringArg(args, "filePath")
	search := stringArg(args, "searchTerm")
	replacement := stringArg(args, "replacementText")

	if regex, _ := args["isRegex"].(bool); regex {
		replaceAll, _ := args["replaceAll"].(bool)
		body := fmt.Sprintf("Search (regex):\n%s\n\nReplacement:\n%s\n\nReplace all: %t", search, replacement, replaceAll)
		return r.codeBox(file, body, true, width) + "\n"
	}
	lang := highlight.LanguageFromPath(file)
	return r.codeBox(file, r.diff(search, replacement, lang, true, width-4), true, width) + "\n"
}

// toolResult pretty prints JSON results and marks {"isError": true} ones
func toolResult(content string, width int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	label := mutedStyle.Render("Result")
	body := content
	if gjson.Valid(content) {
		res := gjson.Parse(content)
		switch {
		case res.Type == gjson.String:
			body = res.Str
		default:
			if res.Get("isError").Bool() {
				label += " " + logStyles["error"].Render("✗ error")
			}
			body = strings.TrimRight(string(pretty.Pretty([]byte(content))), "\n")
		}
	}
	return label + "\n" + codeBoxStyle.Width(width-2).Render(body) + "\n"
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func truncateLine(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// fileBase is used in tool headers where the full path is noise
func fileBase(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
