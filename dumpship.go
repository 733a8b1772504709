// Package dumpship uploads crash dumps and their metadata as a single
// multipart/form-data request.
//
// Example usage:
//
//	cfg := dumpship.DefaultConfig()
//	cfg.URL = "https://crash.example.com/submit"
//	cfg.Parameters = map[string]string{"prod": "MyCppGame", "ver": "1.0.0"}
//	cfg.Files = []dumpship.File{{FieldName: "upload_file_minidump", Path: "/tmp/crash.dmp"}}
//	resp, err := dumpship.Send(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Body)
package dumpship

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/dumpship/internal/adapters/compress"
	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/pkg/bytebuf"
	"github.com/bft-labs/dumpship/pkg/log"
	"github.com/bft-labs/dumpship/pkg/multipart"
	"github.com/bft-labs/dumpship/pkg/state"
	"github.com/bft-labs/dumpship/pkg/upload"
)

// DefaultFieldName is the conventional form field for minidumps.
const DefaultFieldName = "upload_file_minidump"

// File is an attachment read from disk at send time.
type File struct {
	FieldName string
	Path      string
}

// Config holds everything needed for one upload.
type Config struct {
	// URL is the collector endpoint (required)
	URL string

	// MinidumpID names the attachments ("<id>.dmp").
	// Default: a random UUID
	MinidumpID string

	// Parameters are sent as form fields ordered by name
	Parameters map[string]string

	// Files are sent in order after the parameters
	Files []File

	// HTTPTimeout bounds the whole request.
	// Default: 30 seconds
	HTTPTimeout time.Duration

	// Compression is "gzip" or "none".
	// Default: "gzip"
	Compression string

	// HeaderSet is "legacy" or "multipart".
	// Default: "legacy"
	HeaderSet string
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, URL must be set.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout: 30 * time.Second,
		Compression: "gzip",
		HeaderSet:   "legacy",
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required: %w", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative: %w", domain.ErrInvalidConfig)
	}
	for _, f := range c.Files {
		if f.FieldName == "" {
			return fmt.Errorf("file %q has no field name: %w", f.Path, domain.ErrInvalidConfig)
		}
	}
	return nil
}

// New creates an initialized client from cfg. Options are applied after the
// ones derived from cfg, so they take precedence.
func New(cfg Config, opts ...upload.Option) (*upload.Client, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	compressor, err := compress.ByName(cfg.Compression)
	if err != nil {
		return nil, err
	}
	headerSet, err := upload.ParseHeaderSet(cfg.HeaderSet)
	if err != nil {
		return nil, err
	}

	base := []upload.Option{
		upload.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		upload.WithCompressor(compressor),
		upload.WithHeaderSet(headerSet),
	}
	client := upload.New(append(base, opts...)...)

	if err := client.Init(cfg.URL); err != nil {
		return nil, err
	}

	id := cfg.MinidumpID
	if id == "" {
		id = uuid.NewString()
	}
	client.SetMinidumpID(id)
	client.SetParameters(cfg.Parameters)
	for _, f := range cfg.Files {
		client.AddFileAtPath(f.Path, f.FieldName)
	}
	return client, nil
}

// Send builds a client from cfg and performs the upload.
func Send(ctx context.Context, cfg Config, opts ...upload.Option) (upload.Response, error) {
	client, err := New(cfg, opts...)
	if err != nil {
		return upload.Response{Code: domain.CodeNoResponse}, err
	}
	return client.Send(ctx)
}

// Re-export commonly checked errors.
var (
	ErrTransport     = domain.ErrTransport
	ErrCompression   = domain.ErrCompression
	ErrInvalidConfig = domain.ErrInvalidConfig
)

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"bytebuf":   {bytebuf.Version, bytebuf.MinCompatibleVersion},
		"multipart": {multipart.Version, multipart.MinCompatibleVersion},
		"upload":    {upload.Version, upload.MinCompatibleVersion},
		"state":     {state.Version, state.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
