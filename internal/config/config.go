// Package config loads the plugin configuration.
//
// The file is optional: everything has a working default, and a missing
// file behaves exactly like an empty one.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Config represents the gdb-fzf configuration.
type Config struct {
	Fzf        FzfConfig        `yaml:"fzf"`
	Preview    PreviewConfig    `yaml:"preview"`
	Keys       KeysConfig       `yaml:"keys"`
	Completion CompletionConfig `yaml:"completion"`
}

// FzfConfig holds settings for the external picker binary.
type FzfConfig struct {
	Path      string `yaml:"path"`       // picker binary (name or absolute path)
	Height    string `yaml:"height"`     // fzf --height value
	ExtraArgs string `yaml:"extra_args"` // extra arguments, shell-style quoting
}

// PreviewConfig controls the picker's preview window.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Command string `yaml:"command"` // fzf --preview command
}

// KeysConfig holds the readline key sequences the plugin binds.
// The syntax is readline's own (e.g. `\C-r`, `\ec`).
type KeysConfig struct {
	HistorySearch string `yaml:"history_search"`
	CommandSearch string `yaml:"command_search"`
}

// CompletionConfig controls the completion interception behaviour.
type CompletionConfig struct {
	// LongestCommonPrefix lets readline finish typing the matches' shared
	// prefix before the picker takes over.
	LongestCommonPrefix bool `yaml:"longest_common_prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fzf: FzfConfig{
			Path:   "fzf",
			Height: "40%",
		},
		Preview: PreviewConfig{
			Enabled: true,
			Command: `gdb --nx --batch -ex "help {r}"`,
		},
		Keys: KeysConfig{
			HistorySearch: `\C-r`,
			CommandSearch: `\ec`,
		},
	}
}

// Path returns the config file location, honouring XDG_CONFIG_HOME.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gdb-fzf", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gdb-fzf", "config.yaml")
}

// Load reads the config file at Path(), applying defaults for anything the
// file leaves unset.
func Load() (*Config, error) {
	return loadFile(Path())
}

// loadFile is Load with an explicit path, separated for testing.
func loadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// An explicitly empty value means "use the default", not "use nothing".
	def := Default()
	if strings.TrimSpace(cfg.Fzf.Path) == "" {
		cfg.Fzf.Path = def.Fzf.Path
	}
	if strings.TrimSpace(cfg.Fzf.Height) == "" {
		cfg.Fzf.Height = def.Fzf.Height
	}
	if strings.TrimSpace(cfg.Keys.HistorySearch) == "" {
		cfg.Keys.HistorySearch = def.Keys.HistorySearch
	}
	if strings.TrimSpace(cfg.Keys.CommandSearch) == "" {
		cfg.Keys.CommandSearch = def.Keys.CommandSearch
	}

	return cfg, nil
}

// ExtraFzfArgs tokenizes fzf.extra_args with shell quoting rules.
func (c *Config) ExtraFzfArgs() ([]string, error) {
	if strings.TrimSpace(c.Fzf.ExtraArgs) == "" {
		return nil, nil
	}
	args, err := shlex.Split(c.Fzf.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("fzf.extra_args: %w", err)
	}
	return args, nil
}
