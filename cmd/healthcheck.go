package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/agent-transcript/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the config and transcript sources can be read",
	Long: `Check the health of agent-transcript by verifying:
  • Config file location and validity
  • Session database access (--storage) and session count
  • Transcript file access (--file) and turn count
  • Terminal capabilities used for rendering

This command is useful for debugging source issues, especially in CI/CD environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Agent Transcript Health Check"))
		_, _ = fmt.Fprintln(out)

		failed := 0
		check := func(step int, title string, fn func(io.Writer) error) {
			_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Step %d: %s...", step, title)))
			if err := fn(out); err != nil {
				failed++
				_, _ = fmt.Fprintln(out, errorStyle.Render("❌ "+err.Error()))
			}
			_, _ = fmt.Fprintln(out)
		}

		check(1, "Loading config", checkConfig)
		check(2, "Checking session database", checkStorage)
		check(3, "Checking transcript file", checkRecordsFile)
		check(4, "Checking terminal", checkTerminal)

		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		_, _ = fmt.Fprintln(out)
		if failed > 0 {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed: %d check(s) failed", failed)
		}
		if storagePath == "" && recordsFile == "" {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No transcript source configured"))
			_, _ = fmt.Fprintln(out, "   Pass --storage <db> or --file <jsonl> to check one")
			return nil
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func checkConfig(out io.Writer) error {
	path, err := internal.ResolveConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if _, err := internal.LoadConfig(configPath); err != nil {
		return err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
	} else {
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Config loaded"))
	}
	if healthcheckDetails {
		_, _ = fmt.Fprintf(out, "   Path: %s\n", path)
		_, _ = fmt.Fprintf(out, "   Width: %d, diff view: %s, debounce: %s\n", cfg.Width, cfg.Diff.View, cfg.DebounceDuration())
	}
	return nil
}

func checkStorage(out io.Writer) error {
	if storagePath == "" {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Skipped: --storage not set"))
		return nil
	}
	storage, closeDB, err := openStorage()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions, err := storage.LoadSessions()
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Database readable but no sessions found"))
		return nil
	}
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(sessions))))
	if healthcheckDetails {
		for i, s := range sessions {
			if i == 5 {
				_, _ = fmt.Fprintf(out, "   ... and %d more\n", len(sessions)-5)
				break
			}
			_, _ = fmt.Fprintf(out, "   [%d] %s (ID: %s, %d turn(s))\n", i+1, s.DisplayName(), s.ID, s.TurnCount)
		}
	}
	return nil
}

func checkRecordsFile(out io.Writer) error {
	if recordsFile == "" {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Skipped: --file not set"))
		return nil
	}
	t, err := transcriptFromFile(recordsFile)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Read %d turn(s) in %d group(s)", t.TurnCount, t.GroupCount)))
	return nil
}

func checkTerminal(out io.Writer) error {
	if internal.IsTerminal(os.Stdout) {
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Terminal detected, %d columns", internal.TerminalWidth(os.Stdout, 0))))
	} else {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Output is not a terminal, colors and spinners are disabled"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
