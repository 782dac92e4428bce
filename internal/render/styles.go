package render

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var (
	transcriptHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	transcriptMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	toolLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	codeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	fileLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	usageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	logStyles = map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	logIcons = map[string]string{
		"info":    "ℹ",
		"warning": "⚠",
		"error":   "✗",
	}
)

// groupPalette is used for groups that do not carry a color of their own
var groupPalette = []string{"#3b82f6", "#22c55e", "#eab308", "#a855f7", "#ef4444", "#06b6d4", "#f97316", "#ec4899"}

// groupColor returns the explicit color, or a palette color that is stable
// for the group id
func groupColor(id, explicit string) lipgloss.Color {
	if explicit != "" {
		return lipgloss.Color(explicit)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return lipgloss.Color(groupPalette[h.Sum32()%uint32(len(groupPalette))])
}
