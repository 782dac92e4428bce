package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	recordsFile string
	configPath  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

var (
	cfg       = internal.DefaultConfig()
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agent-transcript",
	Short: "Render and export AI coding agent transcripts",
	Long: `A CLI tool to read, render and export the transcripts of AI coding agent
sessions.

Transcripts come from a read-only SQLite session database (--storage) or a
JSONL file of records and stream events (--file). Turns belonging to the same
multi-step exchange are grouped, SEARCH/REPLACE blocks and unified diffs are
drawn as diffs, and token usage is totalled per group and per session.

Quick Start:
  agent-transcript list --storage sessions.db          # List sessions
  agent-transcript show <session-id> --storage s.db    # Render a session
  agent-transcript show --file run.jsonl               # Render a JSONL transcript
  agent-transcript watch events.jsonl                  # Follow a live transcript
  agent-transcript export --format md --storage s.db   # Export as Markdown`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := internal.SetLogLevel(cfg.Log.Level); err != nil {
			return err
		}
		if verbose {
			internal.SetVerbose(true)
		}
		if cfg.Log.File != "" && logCloser == nil {
			closer, err := internal.SetLogFile(cfg.Log.File)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", cfg.Log.File, err)
			}
			logCloser = closer
		}
		internal.LogDebug("Using config: width=%d diff.view=%s", cfg.Width, cfg.Diff.View)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Path to a session database (SQLite, opened read-only)")
	rootCmd.PersistentFlags().StringVar(&recordsFile, "file", "", "Path to a JSONL file of records or stream events")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $"+internal.ConfigEnvVar+" or ~/.agent-transcript/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
