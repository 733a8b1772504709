package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML and
// YAML friendly.
type FileConfig struct {
	URL               string            `toml:"url" yaml:"url"`
	MinidumpID        string            `toml:"minidump_id" yaml:"minidump_id"`
	Params            map[string]string `toml:"params" yaml:"params"`
	Files             []string          `toml:"files" yaml:"files"`
	FieldName         string            `toml:"field_name" yaml:"field_name"`
	HTTPTimeout       string            `toml:"http_timeout" yaml:"http_timeout"`
	Compression       string            `toml:"compression" yaml:"compression"`
	HeaderSet         string            `toml:"header_set" yaml:"header_set"`
	StateDir          string            `toml:"state_dir" yaml:"state_dir"`
	WatchDir          string            `toml:"watch_dir" yaml:"watch_dir"`
	Pattern           string            `toml:"pattern" yaml:"pattern"`
	DebounceDelay     string            `toml:"debounce" yaml:"debounce"`
	DeleteAfterUpload *bool             `toml:"delete_after_upload" yaml:"delete_after_upload"`
	LogLevel          string            `toml:"log_level" yaml:"log_level"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.dumpship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".dumpship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", fc.URL, &cfg.URL)
	s.setString("minidump-id", fc.MinidumpID, &cfg.MinidumpID)
	s.setString("field-name", fc.FieldName, &cfg.FieldName)
	s.setString("compression", fc.Compression, &cfg.Compression)
	s.setString("header-set", fc.HeaderSet, &cfg.HeaderSet)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("dir", fc.WatchDir, &cfg.WatchDir)
	s.setString("pattern", fc.Pattern, &cfg.Pattern)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setStrings("file", fc.Files, &cfg.Files)
	s.setParams("param", fc.Params, &cfg.Params)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.DebounceDelay, &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setBool("delete", fc.DeleteAfterUpload, &cfg.DeleteAfterUpload)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
