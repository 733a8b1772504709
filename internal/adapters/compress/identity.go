package compress

import (
	"fmt"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/pkg/bytebuf"
)

// Identity implements ports.Compressor by copying the input unchanged.
type Identity struct{}

// NewIdentity creates a pass-through compressor.
func NewIdentity() *Identity {
	return &Identity{}
}

// Encoding returns "" since the output is not encoded.
func (Identity) Encoding() string {
	return ""
}

// Bound returns n.
func (Identity) Bound(n int) int {
	return n
}

// Compress copies src into dst.
func (Identity) Compress(dst *bytebuf.Buffer, src []byte) error {
	w := fixedWriter{dst: dst}
	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("copy body: %w", err)
	}
	return nil
}

// ByName returns the compressor registered under name.
// Recognized names are "gzip" (the default for "") and "none".
func ByName(name string) (ports.Compressor, error) {
	switch name {
	case "gzip", "":
		return NewGzip(-1), nil
	case "none", "identity":
		return NewIdentity(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q: %w", name, domain.ErrInvalidConfig)
	}
}
