package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/diffengine"
	"github.com/iksnae/agent-transcript/internal/render"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
	inspectRender bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file|-]",
	Short: "Classify a block of turn text and show the diff it carries",
	Long: `Inspect a block of turn text, read from a file or from stdin.

This command reports:
  • The detected encoding (plain, custom_diff or unified_diff)
  • For SEARCH/REPLACE blocks, the extraction phase and the old and new text
  • Diff statistics (lines added and removed)

Examples:
  agent-transcript inspect reply.txt
  pbpaste | agent-transcript inspect -
  agent-transcript inspect reply.txt --format json
  agent-transcript inspect reply.txt --render`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		report := inspectText(text)
		out := cmd.OutOrStdout()
		switch inspectFormat {
		case "json":
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
		case "text", "":
			printInspectReport(out, report)
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}

		if inspectRender {
			r := render.New(renderOptions(out, 0, true))
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprint(out, r.RenderContent(text, true))
		}
		return nil
	},
}

// inspectReport is what inspect prints about one block of text
type inspectReport struct {
	Encoding string          `json:"encoding"`
	Phase    string          `json:"phase,omitempty"`
	Old      string          `json:"old,omitempty"`
	New      string          `json:"new,omitempty"`
	Added    int             `json:"added"`
	Removed  int             `json:"removed"`
	Files    []inspectedFile `json:"files,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type inspectedFile struct {
	Path    string `json:"path"`
	Hunks   int    `json:"hunks"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

func inspectText(text string) inspectReport {
	enc := internal.Classify(text)
	report := inspectReport{Encoding: enc.String()}

	switch enc {
	case internal.EncodingCustomDiff:
		block := internal.ExtractDiffBlock(text)
		report.Phase = block.Phase.String()
		report.Old, report.New = block.Old, block.New
		res := diffengine.Compute(block.Old, block.New, diffengine.Options{})
		if res.Err != nil {
			report.Error = res.Err.Error()
			break
		}
		report.Added, report.Removed = res.Stats.Added, res.Stats.Removed
	case internal.EncodingUnifiedDiff:
		files, err := diffengine.ParseUnified(text)
		if err != nil {
			report.Error = err.Error()
			break
		}
		for _, f := range files {
			stats := f.Stats()
			report.Files = append(report.Files, inspectedFile{
				Path: f.Path(), Hunks: len(f.Hunks), Added: stats.Added, Removed: stats.Removed,
			})
			report.Added += stats.Added
			report.Removed += stats.Removed
		}
	}
	return report
}

func printInspectReport(out io.Writer, r inspectReport) {
	_, _ = fmt.Fprintf(out, "🔎 Encoding: %s\n", r.Encoding)
	if r.Phase != "" {
		_, _ = fmt.Fprintf(out, "   Phase: %s\n", r.Phase)
	}
	if r.Encoding == internal.EncodingPlain.String() {
		return
	}
	if r.Error != "" {
		_, _ = fmt.Fprintf(out, "⚠️  Diff unavailable: %s\n", r.Error)
		return
	}
	_, _ = fmt.Fprintf(out, "📊 Diff: %s\n", diffengine.Stats{Added: r.Added, Removed: r.Removed})

	for _, f := range r.Files {
		_, _ = fmt.Fprintf(out, "   %s: %d hunk(s), +%d -%d\n", f.Path, f.Hunks, f.Added, f.Removed)
	}
	if r.Encoding == internal.EncodingCustomDiff.String() {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, "━━━━━━━━━━ Old ━━━━━━━━━━")
		_, _ = fmt.Fprintln(out, strings.TrimRight(r.Old, "\n"))
		_, _ = fmt.Fprintln(out, "━━━━━━━━━━ New ━━━━━━━━━━")
		_, _ = fmt.Fprintln(out, strings.TrimRight(r.New, "\n"))
	}
}

// readInput reads path, or stdin for "-"
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", &internal.StorageError{Path: "stdin", Op: "read", Err: err}
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &internal.StorageError{Path: path, Op: "read", Err: err}
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().BoolVar(&inspectRender, "render", false, "Also draw the block the way show does")
}
