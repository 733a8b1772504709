package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/pkg/log"
	"github.com/bft-labs/dumpship/pkg/state"
	"github.com/bft-labs/dumpship/pkg/upload"
)

// Attachment is a file to upload under a form field.
type Attachment struct {
	FieldName string
	Path      string
}

// ShipperConfig contains configuration for the shipper.
type ShipperConfig struct {
	URL string

	// MinidumpID names attachments in Ship. Empty generates a UUID per upload.
	MinidumpID string

	Params map[string]string

	// FieldName is the form field of dumps handed to ShipDump
	FieldName string

	// Extra files are sent with every dump in ShipDump
	Extra []Attachment

	// DeleteAfterUpload removes shipped files once the server accepts them
	DeleteAfterUpload bool
}

// Shipper performs one upload per call and records a receipt for each.
type Shipper struct {
	config  ShipperConfig
	repo    ports.ReceiptRepository
	logger  log.Logger
	options []upload.Option

	mu      sync.Mutex
	history state.State
}

// NewShipper creates a shipper. Client options are applied to every upload.
func NewShipper(config ShipperConfig, repo ports.ReceiptRepository, logger log.Logger, opts ...upload.Option) *Shipper {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Shipper{
		config:  config,
		repo:    repo,
		logger:  logger,
		options: append([]upload.Option{upload.WithLogger(logger)}, opts...),
	}
}

// Load reads the upload history. A corrupt history is logged and replaced.
func (s *Shipper) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	history, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Error("failed to load receipts, starting empty", log.Err(err))
		history = state.State{}
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
	return nil
}

// Uploaded reports whether path was accepted by an earlier upload.
func (s *Shipper) Uploaded(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Uploaded(path)
}

// Ship uploads files in one request. On success with DeleteAfterUpload set
// the files are removed.
func (s *Shipper) Ship(ctx context.Context, files []Attachment) (upload.Response, error) {
	id := s.config.MinidumpID
	if id == "" {
		id = uuid.NewString()
	}

	resp, err := s.ship(ctx, id, files)
	if err == nil && s.config.DeleteAfterUpload {
		for _, f := range files {
			s.remove(f.Path)
		}
	}
	return resp, err
}

// ShipDump uploads one dump with the configured extra files. The minidump ID
// is the dump's base name without extension.
func (s *Shipper) ShipDump(ctx context.Context, path string) error {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if id == "" {
		id = uuid.NewString()
	}

	files := append([]Attachment{{FieldName: s.config.FieldName, Path: path}}, s.config.Extra...)
	if _, err := s.ship(ctx, id, files); err != nil {
		return err
	}
	if s.config.DeleteAfterUpload {
		s.remove(path)
	}
	return nil
}

func (s *Shipper) ship(ctx context.Context, id string, files []Attachment) (upload.Response, error) {
	client := upload.New(s.options...)
	if err := client.Init(s.config.URL); err != nil {
		return upload.Response{Code: domain.CodeNoResponse}, err
	}
	client.SetMinidumpID(id)
	client.SetParameters(s.config.Params)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		client.AddFileAtPath(f.Path, f.FieldName)
		paths = append(paths, f.Path)
	}

	resp, err := client.Send(ctx)

	rec := state.Receipt{
		URL:           s.config.URL,
		Boundary:      client.Boundary(),
		MinidumpID:    id,
		Files:         paths,
		Code:          resp.Code,
		ResponseBytes: len(resp.Body),
		SentAt:        time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	s.record(ctx, rec)

	return resp, err
}

// record persists a receipt. Persistence failures are logged, not returned.
func (s *Shipper) record(ctx context.Context, rec state.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		s.history.Record(rec)
		return
	}
	history, err := s.repo.Append(ctx, rec)
	if err != nil {
		s.logger.Error("failed to save receipt",
			log.String("minidump_id", rec.MinidumpID),
			log.Err(err))
		s.history.Record(rec)
		return
	}
	s.history = history
}

func (s *Shipper) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove shipped file",
			log.String("path", path),
			log.Err(err))
		return
	}
	s.logger.Debug("removed shipped file", log.String("path", path))
}
