package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				URL:               "https://crash.example.com",
				MinidumpID:        "abc",
				Files:             []string{"/tmp/a.dmp"},
				HTTPTimeout:       "5s",
				DebounceDelay:     "1s",
				Compression:       "none",
				DeleteAfterUpload: &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				URL:               "https://crash.example.com",
				MinidumpID:        "abc",
				Files:             []string{"/tmp/a.dmp"},
				HTTPTimeout:       5 * time.Second,
				DebounceDelay:     time.Second,
				Compression:       "none",
				DeleteAfterUpload: true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				URL:   "https://file.example.com",
				Files: []string{"/file.dmp"},
			},
			changed: map[string]bool{"url": true, "file": true},
			initial: Config{
				URL:   "https://flag.example.com",
				Files: []string{"/flag.dmp"},
			},
			expected: Config{
				URL:   "https://flag.example.com",
				Files: []string{"/flag.dmp"},
			},
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{HTTPTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}

			if cfg.URL != tt.expected.URL {
				t.Errorf("URL = %v, want %v", cfg.URL, tt.expected.URL)
			}
			if cfg.MinidumpID != tt.expected.MinidumpID {
				t.Errorf("MinidumpID = %v, want %v", cfg.MinidumpID, tt.expected.MinidumpID)
			}
			if strings.Join(cfg.Files, ",") != strings.Join(tt.expected.Files, ",") {
				t.Errorf("Files = %v, want %v", cfg.Files, tt.expected.Files)
			}
			if cfg.HTTPTimeout != tt.expected.HTTPTimeout {
				t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, tt.expected.HTTPTimeout)
			}
			if cfg.DebounceDelay != tt.expected.DebounceDelay {
				t.Errorf("DebounceDelay = %v, want %v", cfg.DebounceDelay, tt.expected.DebounceDelay)
			}
			if cfg.Compression != tt.expected.Compression {
				t.Errorf("Compression = %v, want %v", cfg.Compression, tt.expected.Compression)
			}
			if cfg.DeleteAfterUpload != tt.expected.DeleteAfterUpload {
				t.Errorf("DeleteAfterUpload = %v, want %v", cfg.DeleteAfterUpload, tt.expected.DeleteAfterUpload)
			}
		})
	}
}

func TestApplyFileConfig_Params(t *testing.T) {
	cfg := Config{Params: map[string]string{"ver": "2.0"}}
	fc := FileConfig{Params: map[string]string{"prod": "game", "ver": "1.0"}}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"param": true}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.Params["prod"] != "game" {
		t.Errorf("Params[prod] = %v, want game", cfg.Params["prod"])
	}
	if cfg.Params["ver"] != "2.0" {
		t.Errorf("Params[ver] = %v, want 2.0 (flag should win)", cfg.Params["ver"])
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
url = "https://crash.example.com/submit"
files = ["/tmp/a.dmp", "log=/tmp/app.log"]
http_timeout = "10s"
delete_after_upload = true

[params]
prod = "MyCppGame"
ver = "1.0.0"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.URL != "https://crash.example.com/submit" {
		t.Errorf("URL = %v", fc.URL)
	}
	if len(fc.Files) != 2 || fc.Files[1] != "log=/tmp/app.log" {
		t.Errorf("Files = %v", fc.Files)
	}
	if fc.HTTPTimeout != "10s" {
		t.Errorf("HTTPTimeout = %v, want 10s", fc.HTTPTimeout)
	}
	if fc.Params["prod"] != "MyCppGame" || fc.Params["ver"] != "1.0.0" {
		t.Errorf("Params = %v", fc.Params)
	}
	if fc.DeleteAfterUpload == nil || !*fc.DeleteAfterUpload {
		t.Errorf("DeleteAfterUpload = %v, want true", fc.DeleteAfterUpload)
	}
}

func TestLoadFileConfig_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
url: https://crash.example.com/submit
header_set: multipart
debounce: 2s
params:
  prod: MyCppGame
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.URL != "https://crash.example.com/submit" {
		t.Errorf("URL = %v", fc.URL)
	}
	if fc.HeaderSet != "multipart" {
		t.Errorf("HeaderSet = %v, want multipart", fc.HeaderSet)
	}
	if fc.DebounceDelay != "2s" {
		t.Errorf("DebounceDelay = %v, want 2s", fc.DebounceDelay)
	}
	if fc.Params["prod"] != "MyCppGame" {
		t.Errorf("Params = %v", fc.Params)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
url = "https://example.com"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".dumpship") {
		t.Errorf("DefaultConfigPath() = %v, should contain .dumpship", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
