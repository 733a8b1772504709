package compress

import (
	"compress/gzip"
	"fmt"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/pkg/bytebuf"
)

// gzipOverhead covers the gzip header and trailer plus the deflate framing
// of an empty stream.
const gzipOverhead = 13 + 18

// Gzip implements ports.Compressor with gzip framing.
type Gzip struct {
	level int
}

// NewGzip creates a gzip compressor. Levels outside the range accepted by
// compress/gzip fall back to gzip.DefaultCompression.
func NewGzip(level int) *Gzip {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &Gzip{level: level}
}

// Encoding returns "gzip".
func (g *Gzip) Encoding() string {
	return "gzip"
}

// Bound returns the worst-case gzip size for n input bytes. Incompressible
// input is stored, which costs a few bytes per block on top of the framing.
func (g *Gzip) Bound(n int) int {
	return n + n>>12 + n>>14 + n>>25 + gzipOverhead
}

// Compress writes the gzip stream of src into dst without growing it.
func (g *Gzip) Compress(dst *bytebuf.Buffer, src []byte) error {
	zw, err := gzip.NewWriterLevel(&fixedWriter{dst: dst}, g.level)
	if err != nil {
		return fmt.Errorf("gzip writer: %w: %w", domain.ErrCompression, err)
	}
	if _, err := zw.Write(src); err != nil {
		return fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("gzip close: %w", err)
	}
	return nil
}

// fixedWriter appends to a buffer but refuses to grow it past its capacity.
type fixedWriter struct {
	dst *bytebuf.Buffer
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	if w.dst.Len()+len(p) > w.dst.Cap() {
		return 0, fmt.Errorf("need %d bytes, have %d: %w",
			w.dst.Len()+len(p), w.dst.Cap(), domain.ErrInsufficientSpace)
	}
	return w.dst.Write(p)
}
