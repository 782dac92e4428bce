package cmd

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/render"
)

var errNoSource = errors.New("no transcript source: pass --storage <db> or --file <jsonl>")

// openStorage opens the --storage database. The returned func closes it.
func openStorage() (*internal.Storage, func(), error) {
	if storagePath == "" {
		return nil, nil, errNoSource
	}
	db, err := internal.OpenDatabase(storagePath)
	if err != nil {
		return nil, nil, err
	}
	return internal.NewStorage(db), func() { _ = db.Close() }, nil
}

// loadTranscript reads --file when set, otherwise the given stored session
func loadTranscript(sessionID string) (*internal.Transcript, error) {
	if recordsFile != "" {
		return transcriptFromFile(recordsFile)
	}
	if sessionID == "" {
		return nil, errors.New("a session id is required unless --file is set")
	}
	storage, closeDB, err := openStorage()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	info, err := storage.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	return internal.NewReconstructor().ReconstructSession(storage, info)
}

func transcriptFromFile(path string) (*internal.Transcript, error) {
	turns, err := internal.LoadRecordsFile(path)
	if err != nil {
		return nil, err
	}
	return internal.NewReconstructor().Reconstruct(fileSessionID(path), turns), nil
}

// fileSessionID names a file based transcript after the file
func fileSessionID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// renderOptions applies command line overrides to the configured options.
// A width of 0 everywhere means the terminal width.
func renderOptions(out io.Writer, width int, noMarkdown bool) render.Options {
	opts := render.OptionsFromConfig(cfg)
	switch {
	case width > 0:
		opts.Width = width
	case opts.Width <= 0:
		opts.Width = internal.TerminalWidth(out, 100)
	}
	if noMarkdown {
		opts.Markdown = false
	}
	return opts
}
