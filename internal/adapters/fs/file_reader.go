package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/pkg/bytebuf"
)

// FileReader implements ports.FileReader using the local file system.
type FileReader struct{}

// NewFileReader creates a new FileReader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// ReadFile reads the whole file at path in binary mode.
// Failures yield an empty buffer and an error wrapping domain.ErrFileRead.
func (r *FileReader) ReadFile(path string) (*bytebuf.Buffer, error) {
	if path == "" {
		return bytebuf.New(0), fmt.Errorf("empty path: %w", domain.ErrFileRead)
	}

	f, err := os.Open(path)
	if err != nil {
		return bytebuf.New(0), fmt.Errorf("open %s: %w: %w", path, domain.ErrFileRead, err)
	}
	defer f.Close()

	var size int
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		size = int(info.Size())
	}

	buf := bytebuf.New(size)
	if _, err := io.Copy(buf, f); err != nil {
		return bytebuf.New(0), fmt.Errorf("read %s: %w: %w", path, domain.ErrFileRead, err)
	}
	if buf.Empty() {
		return buf, fmt.Errorf("read %s: no data: %w", path, domain.ErrFileRead)
	}

	return buf, nil
}
