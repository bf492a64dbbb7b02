package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadFile(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
fzf:
  path: /opt/fzf/bin/fzf
  height: 60%
  extra_args: "--color=dark --margin 1"
preview:
  enabled: false
keys:
  history_search: '\C-t'
completion:
  longest_common_prefix: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/fzf/bin/fzf", cfg.Fzf.Path)
	assert.Equal(t, "60%", cfg.Fzf.Height)
	assert.False(t, cfg.Preview.Enabled)
	assert.Equal(t, `\C-t`, cfg.Keys.HistorySearch)
	// Unset keys keep their defaults.
	assert.Equal(t, `\ec`, cfg.Keys.CommandSearch)
	assert.True(t, cfg.Completion.LongestCommonPrefix)
}

func TestLoadEmptyValuesFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fzf:\n  path: \"\"\n"), 0644))

	cfg, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fzf", cfg.Fzf.Path)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fzf: [broken"), 0644))

	_, err := loadFile(path)
	assert.Error(t, err)
}

func TestExtraFzfArgs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "plain", raw: "--color=dark --margin 1", want: []string{"--color=dark", "--margin", "1"}},
		{name: "quoted", raw: `--prompt "gdb> "`, want: []string{"--prompt", "gdb> "}},
		{name: "unterminated quote", raw: `--prompt "gdb`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Fzf.ExtraArgs = tt.raw
			got, err := cfg.ExtraFzfArgs()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
