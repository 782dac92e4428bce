// Package highlight wraps chroma for code tokenizing and terminal coloring.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when the requested chroma style does not exist
const DefaultStyle = "monokai"

// Token is one lexed span of source text
type Token struct {
	Type  string
	Value string
}

// lexerFor resolves a lexer by name or alias, then by content
func lexerFor(text, language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Tokenize lexes text. It returns nil if lexing fails for any reason.
func Tokenize(text, language string) (tokens []Token) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
		}
	}()

	iterator, err := lexerFor(text, language).Tokenise(nil, text)
	if err != nil {
		return nil
	}
	for _, tok := range iterator.Tokens() {
		tokens = append(tokens, Token{Type: tok.Type.String(), Value: tok.Value})
	}
	return tokens
}

// Highlight colors text for a 256-color terminal. The input is returned
// unchanged if anything goes wrong.
func Highlight(text, language, style string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()

	s := styles.Get(style)
	if s == nil || s == styles.Fallback {
		s = styles.Get(DefaultStyle)
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexerFor(text, language).Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return text
	}
	return buf.String()
}

// HighlightLines highlights text and splits it back into one entry per
// input line. Lexers append a final newline, so extra lines are dropped.
func HighlightLines(text, language, style string) []string {
	want := len(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
	lines := strings.Split(Highlight(text, language, style), "\n")
	if len(lines) > want {
		lines = lines[:want]
	}
	for len(lines) < want {
		lines = append(lines, "")
	}
	return lines
}

// LanguageFromPath returns the chroma lexer name for a file path, or ""
// when nothing better than plain text matches
func LanguageFromPath(path string) string {
	if path == "" {
		return ""
	}
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil || lexer.Config().Name == "plaintext" {
		return ""
	}
	return lexer.Config().Name
}
