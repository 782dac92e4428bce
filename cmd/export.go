package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/export"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transcripts to files",
	Long: `Export grouped transcripts to various formats (jsonl, md, yaml, json).

Every session in the --storage database is exported unless --session-id names
one. With --file the JSONL transcript is exported instead. Each transcript is
written to <out>/session_<id>.<ext>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		var transcripts []*internal.Transcript
		err = internal.ShowProgress(ctx, out, "Loading transcripts", func() error {
			var loadErr error
			transcripts, loadErr = loadExportTranscripts(ctx)
			return loadErr
		})
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		exported := 0
		err = internal.ShowProgress(ctx, out, fmt.Sprintf("Exporting %d transcript(s) to %s", len(transcripts), outputDir), func() error {
			for _, t := range transcripts {
				path, err := writeTranscript(exporter, t, outputDir)
				if err != nil {
					internal.LogError("%v", err)
					continue
				}
				internal.LogDebug("Wrote %s", path)
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if exported < len(transcripts) {
			return fmt.Errorf("exported %d of %d transcript(s)", exported, len(transcripts))
		}

		internal.PrintSuccess(out, fmt.Sprintf("Export complete: %d transcript(s) exported to %s", exported, outputDir))
		return nil
	},
}

// loadExportTranscripts loads the --file transcript, or the stored sessions
// concurrently in their listing order
func loadExportTranscripts(ctx context.Context) ([]*internal.Transcript, error) {
	if recordsFile != "" {
		t, err := transcriptFromFile(recordsFile)
		if err != nil {
			return nil, err
		}
		return []*internal.Transcript{t}, nil
	}

	storage, closeDB, err := openStorage()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	sessions, err := storage.LoadSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	if sessionID != "" {
		var match []internal.SessionInfo
		for _, s := range sessions {
			if s.ID == sessionID {
				match = append(match, s)
				break
			}
		}
		if len(match) == 0 {
			return nil, fmt.Errorf("%w: %s (use 'agent-transcript list' to see available sessions)", internal.ErrSessionNotFound, sessionID)
		}
		sessions = match
	}

	transcripts := make([]*internal.Transcript, len(sessions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	reconstructor := internal.NewReconstructor()
	for i, info := range sessions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := reconstructor.ReconstructSession(storage, info)
			if err != nil {
				return err
			}
			transcripts[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return transcripts, nil
}

// writeTranscript exports one transcript into dir and returns the file path
func writeTranscript(exporter export.Exporter, t *internal.Transcript, dir string) (string, error) {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(t.SessionID)
	path := filepath.Join(dir, fmt.Sprintf("session_%s.%s", name, exporter.Extension()))
	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(t, file); err != nil {
		_ = file.Close()
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
