package internal

import (
	"regexp"
	"strings"
)

var (
	searchMarker  = regexp.MustCompile(`(?m)^<{5,9} ?SEARCH[^\n]*$`)
	dividerMarker = regexp.MustCompile(`(?m)^={5,9}[ \t\r]*$`)
	replaceMarker = regexp.MustCompile(`(?m)^>{5,9} ?REPLACE[ \t\r]*$`)
)

// DiffPhase tells how much of a SEARCH/REPLACE block has arrived
type DiffPhase int

const (
	PhaseNone     DiffPhase = iota // no start marker
	PhaseSearch                    // old side streaming
	PhaseReplace                   // old side final, new side streaming
	PhaseComplete                  // all three markers present
)

func (p DiffPhase) String() string {
	switch p {
	case PhaseSearch:
		return "search"
	case PhaseReplace:
		return "replace"
	case PhaseComplete:
		return "complete"
	default:
		return "none"
	}
}

// DiffBlock is the old/new pair carried by a SEARCH/REPLACE block
type DiffBlock struct {
	Old   string
	New   string
	Phase DiffPhase
}

// ExtractDiffBlock pulls the old and new text out of the first SEARCH/REPLACE
// block in text. It works on partially streamed text: a trailing line that
// could still become the closing marker is held back until it resolves, so
// every result is a prefix of the result for the finished text. A divider
// counts once its line break has arrived; the REPLACE marker counts as soon as
// the word is complete.
func ExtractDiffBlock(text string) DiffBlock {
	start := searchMarker.FindStringIndex(text)
	if start == nil {
		return DiffBlock{}
	}
	rest := text[start[1]:]

	div := dividerMarker.FindStringIndex(rest)
	// an unterminated divider line may still grow past nine '='
	if div != nil && div[1] == len(rest) {
		div = nil
	}
	if div == nil {
		old := trimLeadingNewline(rest)
		return DiffBlock{
			Old:   holdBackPartialLine(old, isPartialDivider),
			Phase: PhaseSearch,
		}
	}
	old := trimLeadingNewline(rest[:div[0]])
	rest = rest[div[1]:]

	end := replaceMarker.FindStringIndex(rest)
	if end == nil {
		updated := trimLeadingNewline(rest)
		updated = holdBackPartialLine(updated, isPartialReplace)
		return DiffBlock{
			Old:   old,
			New:   trimTrailingNewline(updated),
			Phase: PhaseReplace,
		}
	}
	return DiffBlock{
		Old:   old,
		New:   trimTrailingNewline(trimLeadingNewline(rest[:end[0]])),
		Phase: PhaseComplete,
	}
}

func trimLeadingNewline(s string) string {
	return strings.TrimPrefix(s, "\n")
}

// The line break in front of the REPLACE marker belongs to the marker.
func trimTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// holdBackPartialLine drops an unterminated last line when partial reports
// that it may still grow into a marker.
func holdBackPartialLine(s string, partial func(string) bool) string {
	idx := strings.LastIndexByte(s, '\n')
	last := s[idx+1:]
	if last == "" || !partial(last) {
		return s
	}
	return s[:idx+1]
}

func isPartialDivider(line string) bool {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || len(line) > 9 {
		return false
	}
	return strings.Trim(line, "=") == ""
}

func isPartialReplace(line string) bool {
	n := 0
	for n < len(line) && line[n] == '>' {
		n++
	}
	if n == 0 || n > 9 {
		return false
	}
	rest := line[n:]
	if rest == "" {
		return true
	}
	if n < 5 {
		return false
	}
	rest = strings.TrimPrefix(rest, " ")
	return strings.HasPrefix("REPLACE", rest)
}
