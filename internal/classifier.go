package internal

import "regexp"

// Encoding is the content format detected in a turn's text
type Encoding int

const (
	EncodingPlain Encoding = iota
	EncodingCustomDiff
	EncodingUnifiedDiff
)

func (e Encoding) String() string {
	switch e {
	case EncodingCustomDiff:
		return "custom_diff"
	case EncodingUnifiedDiff:
		return "unified_diff"
	default:
		return "plain"
	}
}

var (
	unifiedOldHeader = regexp.MustCompile(`(?m)^--- `)
	unifiedNewHeader = regexp.MustCompile(`(?m)^\+\+\+ `)
)

// Classify inspects accumulated turn text and reports its encoding.
//
// A SEARCH start marker wins over unified diff headers. Classify is pure, so
// it is safe to call again on every content update.
func Classify(text string) Encoding {
	if searchMarker.MatchString(text) {
		return EncodingCustomDiff
	}
	if unifiedOldHeader.MatchString(text) && unifiedNewHeader.MatchString(text) {
		return EncodingUnifiedDiff
	}
	return EncodingPlain
}
