package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/agent-transcript/internal"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var listLimit int

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List sessions in the session database",
	Long: `List the sessions stored in the --storage database with their turn counts.

An optional query fuzzy-matches session names and ids; results are then
ordered by match quality.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, closeDB, err := openStorage()
		if err != nil {
			return err
		}
		defer closeDB()

		sessions, err := storage.LoadSessions()
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		if len(args) == 1 {
			sessions = filterSessions(sessions, args[0])
		}
		if listLimit > 0 && len(sessions) > listLimit {
			sessions = sessions[:listLimit]
		}

		displaySessions(cmd.OutOrStdout(), sessions)
		return nil
	},
}

// sessionSource adapts sessions to fuzzy.Source, matching "name id"
type sessionSource []internal.SessionInfo

func (s sessionSource) String(i int) string {
	return s[i].Name + " " + s[i].ID
}

func (s sessionSource) Len() int { return len(s) }

// filterSessions keeps the sessions matching query, best match first
func filterSessions(sessions []internal.SessionInfo, query string) []internal.SessionInfo {
	if strings.TrimSpace(query) == "" {
		return sessions
	}
	matches := fuzzy.FindFrom(query, sessionSource(sessions))
	filtered := make([]internal.SessionInfo, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, sessions[m.Index])
	}
	return filtered
}

func displaySessions(out io.Writer, sessions []internal.SessionInfo) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Turns")+"\t"+titleStyle.Render("Updated")+"\t")

	for _, s := range sessions {
		name := s.Name
		if name == "" {
			name = "Untitled"
		}
		name = truncate.StringWithTail(name, 50, "...")

		updated := dateStyle.Render("—")
		switch {
		case !s.UpdatedAt.IsZero():
			updated = dateStyle.Render(humanize.Time(s.UpdatedAt))
		case !s.CreatedAt.IsZero():
			updated = dateStyle.Render(humanize.Time(s.CreatedAt))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(s.ID), name, countStyle.Render(strconv.Itoa(s.TurnCount)), updated)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(sessions[0].ID)+
		idStyle.Render(") with `agent-transcript show <id>`"))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most this many sessions")
}
