package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/dumpship/internal/domain"
)

// DefaultFieldName is the form field used for dumps given without one.
const DefaultFieldName = "upload_file_minidump"

// Config holds CLI configuration for dumpship.
type Config struct {
	URL        string
	MinidumpID string
	Params     map[string]string

	// Files are "field=path" pairs, or bare paths sent under FieldName.
	Files     []string
	FieldName string

	HTTPTimeout time.Duration
	Compression string
	HeaderSet   string

	StateDir string

	WatchDir          string
	Pattern           string
	DebounceDelay     time.Duration
	DeleteAfterUpload bool

	LogLevel string
}

// Attachment is a parsed Files entry.
type Attachment struct {
	FieldName string
	Path      string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Params:        map[string]string{},
		FieldName:     DefaultFieldName,
		HTTPTimeout:   30 * time.Second,
		Compression:   "gzip",
		HeaderSet:     "legacy",
		StateDir:      "", // Derived from home directory during Validate
		Pattern:       "*.dmp",
		DebounceDelay: 500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required: %w", domain.ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("url %q must use http or https: %w", c.URL, domain.ErrInvalidConfig)
	}

	if c.FieldName == "" {
		c.FieldName = DefaultFieldName
	}
	if c.Params == nil {
		c.Params = map[string]string{}
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.DebounceDelay < 0 {
		return fmt.Errorf("debounce must not be negative: %w", domain.ErrInvalidConfig)
	}

	switch c.Compression {
	case "", "gzip", "none", "identity":
	default:
		return fmt.Errorf("unknown compression %q: %w", c.Compression, domain.ErrInvalidConfig)
	}
	switch c.HeaderSet {
	case "", "legacy", "multipart":
	default:
		return fmt.Errorf("unknown header set %q: %w", c.HeaderSet, domain.ErrInvalidConfig)
	}

	if _, err := c.Attachments(); err != nil {
		return err
	}

	if c.StateDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(h, ".dumpship")
		}
	}

	return nil
}

// Attachments parses Files. Entries without "=" use FieldName.
func (c *Config) Attachments() ([]Attachment, error) {
	out := make([]Attachment, 0, len(c.Files))
	for _, entry := range c.Files {
		field, path, ok := strings.Cut(entry, "=")
		if !ok {
			field, path = c.FieldName, entry
		}
		if field == "" || path == "" {
			return nil, fmt.Errorf("file %q must be field=path: %w", entry, domain.ErrInvalidConfig)
		}
		out = append(out, Attachment{FieldName: field, Path: path})
	}
	return out, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setParams merges parameters. Values from flags win over values applied here.
func (s *configSetter) setParams(flag string, value map[string]string, dst *map[string]string) {
	if len(value) == 0 {
		return
	}
	if *dst == nil {
		*dst = map[string]string{}
	}
	for k, v := range value {
		if _, ok := (*dst)[k]; ok && s.changed[flag] {
			continue
		}
		(*dst)[k] = v
	}
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
