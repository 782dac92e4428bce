package internal

import (
	"path/filepath"
	"strings"
)

// SegmentKind distinguishes prose from fenced code
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentCode
)

// Segment is a run of markdown text or one fenced code block
type Segment struct {
	Kind     SegmentKind
	Text     string
	Language string // fence info string, code only
	File     string // path named on the line before the fence, code only
	Closed   bool   // false while the closing fence has not arrived
}

// SplitSegments cuts markdown content into text and fenced code segments.
// Both ``` and ~~~ fences are recognised; an unclosed fence runs to the end
// of the content, which is the normal state while a turn is streaming.
func SplitSegments(content string) []Segment {
	var (
		segments []Segment
		text     []string
		code     []string
		current  *Segment
		fence    string
	)

	flushText := func() {
		joined := strings.Join(text, "")
		text = nil
		if strings.TrimSpace(joined) == "" {
			return
		}
		segments = append(segments, Segment{Kind: SegmentText, Text: joined})
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimRight(strings.TrimLeft(line, " "), "\r\n")

		if current == nil {
			marker, info, ok := openingFence(line)
			if !ok {
				text = append(text, line)
				continue
			}
			seg := Segment{Kind: SegmentCode, Language: info}
			if n := len(text); n > 0 {
				if file := fileHint(text[n-1]); file != "" {
					seg.File = file
					text = text[:n-1]
				}
			}
			flushText()
			current, fence = &seg, marker
			continue
		}

		if isClosingFence(trimmed, fence) {
			current.Text = strings.Join(code, "")
			current.Closed = true
			segments = append(segments, *current)
			current, code = nil, nil
			continue
		}
		code = append(code, line)
	}

	if current != nil {
		current.Text = strings.Join(code, "")
		segments = append(segments, *current)
	}
	flushText()
	return segments
}

// openingFence reports the fence marker and info string of a fence line.
// Up to three spaces of indentation are allowed.
func openingFence(line string) (marker, info string, ok bool) {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > 3 {
		return "", "", false
	}
	rest := strings.TrimRight(line[indent:], "\r\n")
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(rest) && rest[n] == ch {
			n++
		}
		if n < 3 {
			continue
		}
		info = strings.TrimSpace(rest[n:])
		if ch == '`' && strings.Contains(info, "`") {
			return "", "", false
		}
		if fields := strings.Fields(info); len(fields) > 0 {
			info = fields[0]
		}
		return rest[:n], info, true
	}
	return "", "", false
}

func isClosingFence(trimmed, fence string) bool {
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	return strings.Trim(strings.TrimSpace(trimmed), fence[:1]) == ""
}

// fileHint returns the path written on its own line above a fence, as in
//
//	src/main.go
//	```go
func fileHint(line string) string {
	s := strings.TrimSpace(line)
	s = strings.Trim(s, "`*_:")
	if s == "" || strings.ContainsAny(s, " \t") {
		return ""
	}
	if len(filepath.Ext(s)) < 2 && !strings.Contains(s, "/") {
		return ""
	}
	return s
}
