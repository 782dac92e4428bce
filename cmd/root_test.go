package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/agent-transcript/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "version flag", args: []string{"--version"}, want: "dev"},
		{name: "help flag", args: []string{"--help"}, want: "agent-transcript"},
		{name: "unknown command", args: []string{"nonexistent-command"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"list", "show", "export", "watch", "inspect", "healthcheck"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 72\ndiff:\n  view: unified\n"), 0644))

	_, err := executeCommand(t, "--config", path, "inspect", "--format", "json", "-")

	require.NoError(t, err)
	assert.Equal(t, 72, cfg.Width)
	assert.Equal(t, internal.DiffViewUnified, cfg.Diff.View)
}

func TestRootCommandRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("diff:\n  view: sideways\n"), 0644))

	_, err := executeCommand(t, "--config", path, "inspect", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRootCommandMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [oops"), 0644))

	_, err := executeCommand(t, "--config", path, "inspect", "-")

	var parseErr *internal.ParseError
	require.ErrorAs(t, err, &parseErr)
}
