package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const receiptsFileName = "receipts.json"

// DefaultMaxReceipts bounds the history kept on disk.
const DefaultMaxReceipts = 1000

// FileRepository implements Repository using a JSON file.
type FileRepository struct {
	dir         string
	maxReceipts int
}

// NewFileRepository creates a new FileRepository for the given directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir, maxReceipts: DefaultMaxReceipts}
}

// Load retrieves the saved history from disk.
// Returns an empty state and nil error if no receipts file exists.
func (r *FileRepository) Load(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read receipts: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode receipts %s: %w", r.Path(), err)
	}
	return s, nil
}

// Save persists the history atomically, keeping only the newest receipts.
func (r *FileRepository) Save(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	if r.maxReceipts > 0 && len(s.Receipts) > r.maxReceipts {
		s.Receipts = s.Receipts[len(s.Receipts)-r.maxReceipts:]
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode receipts: %w", err)
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write receipts: %w", err)
	}
	return os.Rename(tmp, path)
}

// Append loads the history, records rec and saves it back.
func (r *FileRepository) Append(ctx context.Context, rec Receipt) (State, error) {
	s, err := r.Load(ctx)
	if err != nil {
		return State{}, err
	}
	s.Record(rec)
	if err := r.Save(ctx, s); err != nil {
		return State{}, err
	}
	return s, nil
}

// Path returns the full path to the receipts file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, receiptsFileName)
}
