package ports

import "github.com/bft-labs/dumpship/pkg/bytebuf"

// FileReader loads attachment payloads.
type FileReader interface {
	// ReadFile returns the contents of path in an owned buffer.
	// An empty path, an open failure or a zero-byte read returns an empty
	// buffer together with an error wrapping domain.ErrFileRead.
	ReadFile(path string) (*bytebuf.Buffer, error)
}
