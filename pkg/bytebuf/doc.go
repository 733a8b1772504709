// Package bytebuf provides a growable byte buffer with explicit storage
// ownership.
//
// A Buffer either owns its backing array or borrows memory supplied by the
// caller. Owned buffers grow on demand; borrowed buffers never reallocate, and
// every operation that could reallocate fails with ErrIllegalOperation.
//
// # Usage
//
//	buf := bytebuf.New(1024)
//	if err := buf.Append([]byte("payload")); err != nil {
//	    return err
//	}
//
//	view := bytebuf.Wrap(mem) // borrowed, len(mem) bytes in use
//	copy := view.Clone()      // independent, owned
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package bytebuf
