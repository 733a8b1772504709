package cliconfig

import (
	"fmt"
	"os"
	"strings"
)

// ApplyEnvConfig applies DUMPSHIP_* environment variables to the Config.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("DUMPSHIP_URL"), &cfg.URL)
	s.setString("minidump-id", os.Getenv("DUMPSHIP_MINIDUMP_ID"), &cfg.MinidumpID)
	s.setString("field-name", os.Getenv("DUMPSHIP_FIELD_NAME"), &cfg.FieldName)
	s.setString("compression", os.Getenv("DUMPSHIP_COMPRESSION"), &cfg.Compression)
	s.setString("header-set", os.Getenv("DUMPSHIP_HEADER_SET"), &cfg.HeaderSet)
	s.setString("state-dir", os.Getenv("DUMPSHIP_STATE_DIR"), &cfg.StateDir)
	s.setString("dir", os.Getenv("DUMPSHIP_WATCH_DIR"), &cfg.WatchDir)
	s.setString("pattern", os.Getenv("DUMPSHIP_PATTERN"), &cfg.Pattern)
	s.setString("log-level", os.Getenv("DUMPSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if v := os.Getenv("DUMPSHIP_PARAMS"); v != "" {
		params, err := parsePairs(v)
		if err != nil {
			return fmt.Errorf("parse DUMPSHIP_PARAMS: %w", err)
		}
		s.setParams("param", params, &cfg.Params)
	}

	if err := s.setDuration("timeout", os.Getenv("DUMPSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("DUMPSHIP_DEBOUNCE"), &cfg.DebounceDelay); err != nil {
		return err
	}
	if err := s.setBoolFromString("delete", os.Getenv("DUMPSHIP_DELETE_AFTER_UPLOAD"), &cfg.DeleteAfterUpload); err != nil {
		return err
	}

	return nil
}

// parsePairs parses "k1=v1,k2=v2".
func parsePairs(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q", pair)
		}
		out[k] = v
	}
	return out, nil
}
