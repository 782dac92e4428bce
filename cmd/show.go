package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/agent-transcript/internal/render"
	"github.com/spf13/cobra"
)

var (
	limit      int
	showWidth  int
	noMarkdown bool
)

var moreStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("243")).
	Italic(true)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Render a grouped transcript",
	Long: `Render one transcript in the terminal.

The transcript is read from the --storage database by session id, or from a
JSONL file with --file. Grouped turns are drawn in a bordered block with their
combined usage; code edits are drawn as diffs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sessionID string
		if len(args) == 1 {
			sessionID = args[0]
		}
		transcript, err := loadTranscript(sessionID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(transcript.Entries)
		if limit > 0 && limit < total {
			limited := *transcript
			limited.Entries = transcript.Entries[:limit]
			transcript = &limited
		}

		r := render.New(renderOptions(out, showWidth, noMarkdown))
		_, _ = fmt.Fprint(out, r.RenderTranscript(transcript))

		if limit > 0 && limit < total {
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, moreStyle.Render(fmt.Sprintf("... (%d more entries)", total-limit)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of entries (turns or groups) to show")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 0, "Output width (default from config, else terminal width)")
	showCmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "Print prose as wrapped plain text")
}
