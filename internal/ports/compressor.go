package ports

import "github.com/bft-labs/dumpship/pkg/bytebuf"

// Compressor transforms the assembled request body before it is sent.
type Compressor interface {
	// Encoding returns the Content-Encoding token of the output,
	// or "" when the output is not encoded.
	Encoding() string

	// Bound returns the largest output size Compress may produce for n input bytes.
	Bound(n int) int

	// Compress writes the compressed form of src into dst.
	// dst keeps its capacity; output that does not fit returns an error
	// wrapping domain.ErrInsufficientSpace.
	Compress(dst *bytebuf.Buffer, src []byte) error
}
