package internal

import "strings"

const (
	thinkingHeader = "► **THINKING**"
	answerHeader   = "► **ANSWER**"
)

// ThinkingAnswer is a reasoning section followed by the final answer
type ThinkingAnswer struct {
	Thinking string
	Answer   string
	// HasAnswer is false while the answer section has not started streaming
	HasAnswer bool
}

// SplitThinking recognises content shaped as
//
//	---
//	► **THINKING**
//	...
//	---
//	► **ANSWER**
//	...
func SplitThinking(content string) (ThinkingAnswer, bool) {
	start := strings.Index(content, thinkingHeader)
	if start < 0 {
		return ThinkingAnswer{}, false
	}
	if pre := strings.TrimSpace(content[:start]); pre != "" && pre != "---" {
		return ThinkingAnswer{}, false
	}
	body := content[start+len(thinkingHeader):]

	end := strings.Index(body, answerHeader)
	if end < 0 {
		return ThinkingAnswer{Thinking: trimSection(body)}, true
	}
	return ThinkingAnswer{
		Thinking:  trimSection(body[:end]),
		Answer:    strings.TrimSpace(body[end+len(answerHeader):]),
		HasAnswer: true,
	}, true
}

// trimSection strips blank edges and the trailing "---" separator
func trimSection(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "---")
	return strings.TrimSpace(s)
}
