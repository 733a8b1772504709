package multipart

import (
	"fmt"

	"github.com/bft-labs/dumpship/pkg/bytebuf"
)

const (
	fieldFormat = "--%s\r\nContent-Disposition: form-data; name=\"%s\"\r\n\r\n%s\r\n"
	fileFormat  = "--%s\r\nContent-Disposition: form-data; name=\"%s\"; " +
		"filename=\"%s.dmp\"\r\nContent-Type: application/octet-stream\r\n\r\n"
	epilogueFormat = "\r\n--%s--\r\n"
	crlf           = "\r\n"
)

// RenderField renders one form field part, including its trailing CRLF.
func RenderField(boundary, name, value string) *bytebuf.Buffer {
	return bytebuf.CopyOf([]byte(fmt.Sprintf(fieldFormat, boundary, name, value)))
}

// RenderFilePart renders the header block of a file part followed by the raw
// contents. Nothing is appended after the contents; the next part or the
// epilogue supplies the separator.
func RenderFilePart(boundary, fieldName, minidumpID string, contents *bytebuf.Buffer) *bytebuf.Buffer {
	header := fmt.Sprintf(fileFormat, boundary, fieldName, minidumpID)
	part := bytebuf.New(len(header) + contents.Len())
	mustAppend(part, []byte(header))
	mustAppend(part, contents.Bytes())
	return part
}

// RenderEpilogue renders the closing delimiter of a body.
func RenderEpilogue(boundary string) *bytebuf.Buffer {
	return bytebuf.CopyOf([]byte(fmt.Sprintf(epilogueFormat, boundary)))
}

// Body assembles parts into a single owned buffer in the order they are
// added. A part following a file part is preceded by CRLF, since file parts
// end with the raw contents.
type Body struct {
	boundary  string
	buf       *bytebuf.Buffer
	parts     int
	afterFile bool
	closed    bool
}

// NewBody creates an empty body for boundary.
func NewBody(boundary string) *Body {
	return &Body{
		boundary: boundary,
		buf:      bytebuf.New(1024),
	}
}

// Boundary returns the boundary token of the body.
func (b *Body) Boundary() string {
	return b.boundary
}

// Parts returns the number of fields and files added so far.
func (b *Body) Parts() int {
	return b.parts
}

// AddField appends a rendered form field.
func (b *Body) AddField(name, value string) {
	b.add(RenderField(b.boundary, name, value))
	b.afterFile = false
}

// AddFile appends a rendered file part.
func (b *Body) AddFile(fieldName, minidumpID string, contents *bytebuf.Buffer) {
	b.add(RenderFilePart(b.boundary, fieldName, minidumpID, contents))
	b.afterFile = true
}

// Close appends the epilogue and returns the assembled body. Further calls
// return the same buffer without appending again.
func (b *Body) Close() *bytebuf.Buffer {
	if !b.closed {
		mustAppend(b.buf, RenderEpilogue(b.boundary).Bytes())
		b.closed = true
	}
	return b.buf
}

func (b *Body) add(part *bytebuf.Buffer) {
	if b.closed {
		panic("multipart: part added after Close")
	}
	if b.afterFile {
		mustAppend(b.buf, []byte(crlf))
	}
	mustAppend(b.buf, part.Bytes())
	b.parts++
}

// mustAppend appends to a buffer created by this package. Those buffers own
// their storage, so Append cannot fail.
func mustAppend(dst *bytebuf.Buffer, p []byte) {
	if err := dst.Append(p); err != nil {
		panic(err)
	}
}
