package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current braid version.
var Version = "0.3.1"

const SourceFileExt = ".braid"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".braid", ".bd"}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Config holds the REPL options read from the rc file.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	HistoryMax  int    `yaml:"history_max"`
	Color       *bool  `yaml:"color"`
}

// Default returns the configuration used when no rc file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Prompt:      "braid> ",
		HistoryFile: filepath.Join(home, ".braid_history.db"),
		HistoryMax:  1000,
	}
}

// RCPath is the location of the rc file.
func RCPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".braidrc.yaml"
	}
	return filepath.Join(home, ".braidrc.yaml")
}

// Load reads path into a Config, filling unset fields with defaults.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = Default().Prompt
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = Default().HistoryFile
	}
	if cfg.HistoryMax <= 0 {
		cfg.HistoryMax = Default().HistoryMax
	}
	return cfg, nil
}

// ColorEnabled reports whether the config forces color on or off; ok is
// false when the terminal should decide.
func (c *Config) ColorEnabled() (enabled, ok bool) {
	if c.Color == nil {
		return false, false
	}
	return *c.Color, true
}
