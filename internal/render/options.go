package render

import (
	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/diffengine"
)

// splitMinWidth is the narrowest terminal that still gets side-by-side diffs
const splitMinWidth = 120

// Options controls terminal output
type Options struct {
	Width          int
	Markdown       bool
	MarkdownStyle  string // glamour standard style, or "auto"
	HighlightStyle string // chroma style name
	DiffView       string // auto, split or unified
	ContextLines   int
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return OptionsFromConfig(internal.DefaultConfig())
}

// OptionsFromConfig copies the render settings out of a loaded config
func OptionsFromConfig(cfg *internal.Config) Options {
	return Options{
		Width:          cfg.Width,
		Markdown:       cfg.Markdown,
		MarkdownStyle:  cfg.MarkdownStyle,
		HighlightStyle: cfg.HighlightStyle,
		DiffView:       cfg.Diff.View,
		ContextLines:   cfg.Diff.ContextLines,
	}
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 100
	}
	return o.Width
}

// splitDiff reports whether diffs are drawn side by side
func (o Options) splitDiff() bool {
	switch o.DiffView {
	case internal.DiffViewSplit:
		return true
	case internal.DiffViewUnified:
		return false
	default:
		return o.width() >= splitMinWidth
	}
}

func (o Options) diffOptions() diffengine.Options {
	return diffengine.Options{ContextLines: o.ContextLines}
}
