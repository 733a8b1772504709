package domain

import "github.com/bft-labs/dumpship/pkg/bytebuf"

// FormField is one key/value parameter of an upload.
type FormField struct {
	Name  string
	Value string
}

// FileAttachment is one file payload of an upload.
// Exactly one of SourcePath and Contents is set.
type FileAttachment struct {
	// FieldName is the multipart field name (e.g. "upload_file_minidump")
	FieldName string

	// SourcePath is read at send time when set
	SourcePath string

	// Contents is used as-is when set
	Contents *bytebuf.Buffer
}

// NewPathAttachment creates an attachment read lazily from path.
func NewPathAttachment(path, fieldName string) FileAttachment {
	return FileAttachment{FieldName: fieldName, SourcePath: path}
}

// NewContentsAttachment creates an attachment from in-memory contents.
// The contents are copied so later changes by the caller are not uploaded.
func NewContentsAttachment(contents *bytebuf.Buffer, fieldName string) FileAttachment {
	return FileAttachment{FieldName: fieldName, Contents: contents.Clone()}
}

// FromPath reports whether the attachment is read from the file system.
func (a FileAttachment) FromPath() bool {
	return a.Contents == nil
}

// Response is the outcome of one synchronous upload.
type Response struct {
	// Body is the raw response body text, possibly empty or partial on failure
	Body string

	// Code is 0 on success and the transport's error code otherwise
	Code int
}

// OK reports whether the transport reported success.
func (r Response) OK() bool {
	return r.Code == 0
}
