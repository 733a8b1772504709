package bytebuf

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrIllegalOperation is returned when an operation would reallocate
	// storage the buffer does not own.
	ErrIllegalOperation = errors.New("bytebuf: buffer does not own its storage")

	// ErrInvalidSize is returned for negative sizes and capacities.
	ErrInvalidSize = errors.New("bytebuf: invalid size")
)

// Ownership tags who is responsible for a buffer's backing array.
type Ownership int

const (
	// Owned storage is allocated and grown by the buffer itself.
	Owned Ownership = iota

	// Borrowed storage is supplied by the caller and never reallocated.
	Borrowed
)

// String returns a human-readable representation of the ownership tag.
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "Owned"
	case Borrowed:
		return "Borrowed"
	default:
		return "Unknown"
	}
}

// Buffer is a contiguous byte region with a capacity and a used length.
// The zero value is an empty owned buffer ready for use.
//
// Invariant: 0 <= Len() <= Cap() and len(data) == Cap().
type Buffer struct {
	data      []byte
	used      int
	ownership Ownership
}

// New creates an owned buffer with the given capacity and no bytes in use.
// A negative capacity is treated as zero.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Wrap creates a borrowed buffer over mem. All of mem is considered in use.
// The buffer writes through to mem and never reallocates it.
func Wrap(mem []byte) *Buffer {
	return &Buffer{data: mem[:len(mem):len(mem)], used: len(mem), ownership: Borrowed}
}

// CopyOf creates an owned buffer holding a copy of src.
func CopyOf(src []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(src)), used: len(src)}
	copy(b.data, src)
	return b
}

// Clone returns an independent owned copy sized to the used bytes.
func (b *Buffer) Clone() *Buffer {
	return CopyOf(b.Bytes())
}

// Replace makes b an owned copy of other's used bytes.
// The previous storage of b is released, never written to.
func (b *Buffer) Replace(other *Buffer) {
	if b == other {
		return
	}
	tmp := other.Clone()
	b.Swap(tmp)
	b.ownership = Owned
}

// Swap exchanges the contents and ownership of two buffers.
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
	b.used, other.used = other.used, b.used
	b.ownership, other.ownership = other.ownership, b.ownership
}

// Resize sets the logical size to n, growing capacity to exactly n when
// needed. When preserve is set the used bytes are carried over into new
// storage. Shrinking keeps the capacity and only lowers the used length.
func (b *Buffer) Resize(n int, preserve bool) error {
	if b.ownership != Owned {
		return ErrIllegalOperation
	}
	if n < 0 {
		return fmt.Errorf("resize to %d: %w", n, ErrInvalidSize)
	}
	if n > len(b.data) {
		b.realloc(n, preserve)
	}
	b.used = n
	return nil
}

// SetCapacity reallocates storage to exactly n bytes. When preserve is set
// the first min(Len(), n) bytes are carried over. The used length is clamped
// to the new capacity and otherwise left unchanged.
func (b *Buffer) SetCapacity(n int, preserve bool) error {
	if b.ownership != Owned {
		return ErrIllegalOperation
	}
	if n < 0 {
		return fmt.Errorf("set capacity to %d: %w", n, ErrInvalidSize)
	}
	if n != len(b.data) {
		b.realloc(n, preserve)
		if b.used > n {
			b.used = n
		}
	}
	return nil
}

// Assign replaces the used bytes with a copy of src. An empty src is a no-op.
// Content that fits the current capacity is written in place, also for
// borrowed buffers; growth discards the old content.
func (b *Buffer) Assign(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) > len(b.data) {
		if err := b.Resize(len(src), false); err != nil {
			return err
		}
	}
	copy(b.data, src)
	b.used = len(src)
	return nil
}

// Append copies src after the used bytes, growing storage as needed.
func (b *Buffer) Append(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if err := b.grow(len(src)); err != nil {
		return err
	}
	b.used += copy(b.data[b.used:], src)
	return nil
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.data[b.used] = c
	b.used++
	return nil
}

// AppendBuffer appends the used bytes of other.
func (b *Buffer) AppendBuffer(other *Buffer) error {
	return b.Append(other.Bytes())
}

// Write implements io.Writer on top of Append.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Equal reports whether both buffers hold the same used bytes.
// A nil buffer equals any empty buffer.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	return bytes.Equal(b.Bytes(), other.Bytes())
}

// Clear zeroes the used bytes. The used length is unchanged.
func (b *Buffer) Clear() {
	clear(b.data[:b.used])
}

// At returns the byte at index i. It panics if i is out of range.
func (b *Buffer) At(i int) byte {
	b.checkIndex(i)
	return b.data[i]
}

// SetAt stores c at index i. It panics if i is out of range.
func (b *Buffer) SetAt(i int, c byte) {
	b.checkIndex(i)
	b.data[i] = c
}

// Len returns the number of used bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.used
}

// Cap returns the allocated capacity in bytes.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Empty reports whether no bytes are in use.
func (b *Buffer) Empty() bool {
	return b.Len() == 0
}

// Ownership returns the storage ownership tag.
func (b *Buffer) Ownership() Ownership {
	return b.ownership
}

// Owned reports whether the buffer owns its storage.
func (b *Buffer) Owned() bool {
	return b.ownership == Owned
}

// Bytes returns the used bytes. The slice aliases the buffer's storage and is
// only valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data[:b.used]
}

// String returns the used bytes as a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

func (b *Buffer) checkIndex(i int) {
	if i < 0 || i >= b.used {
		panic(fmt.Sprintf("bytebuf: index %d out of range [0:%d]", i, b.used))
	}
}

// grow makes room for n more bytes after the used region.
func (b *Buffer) grow(n int) error {
	if b.ownership != Owned {
		return ErrIllegalOperation
	}
	need := b.used + n
	if need <= len(b.data) {
		return nil
	}
	newCap := 2 * len(b.data)
	if newCap < need {
		newCap = need
	}
	b.realloc(newCap, true)
	return nil
}

func (b *Buffer) realloc(n int, preserve bool) {
	data := make([]byte, n)
	if preserve {
		copy(data, b.data[:min(b.used, n)])
	}
	b.data = data
}
