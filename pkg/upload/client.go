package upload

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bft-labs/dumpship/internal/adapters/compress"
	"github.com/bft-labs/dumpship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/dumpship/internal/adapters/http"
	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/pkg/bytebuf"
	"github.com/bft-labs/dumpship/pkg/log"
	"github.com/bft-labs/dumpship/pkg/multipart"
)

// Client uploads one multipart request per Init.
type Client struct {
	opts  options
	state State

	url        string
	boundary   string
	minidumpID string
	parameters map[string]string
	files      []domain.FileAttachment
}

// New creates a Client in StateUninitialized. Call Init before Send.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.fileReader == nil {
		o.fileReader = fs.NewFileReader()
	}
	if o.compressor == nil {
		o.compressor = compress.NewGzip(-1)
	}
	if o.transport == nil {
		o.transport = httpAdapter.NewTransport(o.httpClient, o.logger).WithProgressBar(o.progress)
	}

	return &Client{
		opts:       o,
		state:      StateUninitialized,
		parameters: map[string]string{},
	}
}

// Init sets the target URL and generates a fresh boundary. It may be called
// again after Send to prepare another request.
func (c *Client) Init(url string) error {
	c.url = url
	c.boundary = multipart.NewBoundary(c.opts.random)
	return c.transitionTo(StateConfigured, "Init() called")
}

// SetMinidumpID sets the identifier used for attachment filenames ("<id>.dmp").
func (c *Client) SetMinidumpID(id string) {
	c.minidumpID = id
}

// SetParameters replaces the form parameters. The map is copied.
func (c *Client) SetParameters(parameters map[string]string) {
	c.parameters = make(map[string]string, len(parameters))
	for k, v := range parameters {
		c.parameters[k] = v
	}
}

// AddFileAtPath registers a file read from path at send time.
// No validation is performed; unreadable paths upload as empty parts.
func (c *Client) AddFileAtPath(path, fieldName string) {
	c.files = append(c.files, domain.NewPathAttachment(path, fieldName))
}

// AddFileContents registers in-memory file contents.
func (c *Client) AddFileContents(contents *bytebuf.Buffer, fieldName string) {
	c.files = append(c.files, domain.NewContentsAttachment(contents, fieldName))
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return c.state
}

// URL returns the target URL.
func (c *Client) URL() string {
	return c.url
}

// Boundary returns the boundary of the current request, empty before Init.
func (c *Client) Boundary() string {
	return c.boundary
}

// MinidumpID returns the identifier used for attachment filenames.
func (c *Client) MinidumpID() string {
	return c.minidumpID
}

// Files returns the registered attachments in registration order.
func (c *Client) Files() []domain.FileAttachment {
	return append([]domain.FileAttachment(nil), c.files...)
}

// Fields returns the form parameters ordered by name.
func (c *Client) Fields() []domain.FormField {
	fields := make([]domain.FormField, 0, len(c.parameters))
	for name, value := range c.parameters {
		fields = append(fields, domain.FormField{Name: name, Value: value})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// Headers returns the raw header lines sent with the request.
func (c *Client) Headers() []string {
	var headers []string
	if c.opts.headerSet == HeaderSetLegacy {
		headers = append(headers, "text/html")
	}
	headers = append(headers, multipart.ContentType(c.boundary))
	if enc := c.opts.compressor.Encoding(); enc != "" {
		headers = append(headers, "Content-Encoding: "+enc)
	}
	return headers
}

// Body assembles the uncompressed multipart body: parameters ordered by
// name, then files in registration order, then the epilogue. Files that
// cannot be read are logged and sent as empty parts.
func (c *Client) Body() *bytebuf.Buffer {
	body, _ := c.assemble()
	return body
}

func (c *Client) assemble() (*bytebuf.Buffer, int) {
	b := multipart.NewBody(c.boundary)
	for _, f := range c.Fields() {
		b.AddField(f.Name, f.Value)
	}

	for _, f := range c.files {
		b.AddFile(f.FieldName, c.minidumpID, c.contents(f))
	}

	return b.Close(), b.Parts()
}

// contents returns the payload of an attachment, empty when unreadable.
func (c *Client) contents(f domain.FileAttachment) *bytebuf.Buffer {
	if !f.FromPath() {
		return f.Contents
	}
	buf, err := c.opts.fileReader.ReadFile(f.SourcePath)
	if err != nil {
		c.opts.logger.Warn("attachment unreadable, sending empty part",
			log.String("path", f.SourcePath),
			log.String("field", f.FieldName),
			log.Err(err))
		return bytebuf.New(0)
	}
	return buf
}

// Send encodes, compresses and posts the request, blocking until the
// transport returns. The client moves to StateSent whatever the outcome.
//
// A compression failure returns an error wrapping domain.ErrCompression and
// nothing is sent. A transport failure returns the transport's non-zero code
// in the Response together with a *domain.TransportError.
func (c *Client) Send(ctx context.Context) (Response, error) {
	if err := validTransition(c.state, StateSent); err != nil {
		return Response{Code: domain.CodeNoResponse}, err
	}

	headers := c.Headers()
	body, parts := c.assemble()
	_ = c.transitionTo(StateSent, "Send() called")

	compressed := bytebuf.New(c.opts.compressor.Bound(body.Len()))
	if err := c.opts.compressor.Compress(compressed, body.Bytes()); err != nil {
		err = fmt.Errorf("compress body: %w: %w", domain.ErrCompression, err)
		c.opts.logger.Error("compression failed",
			log.Int("body_bytes", body.Len()),
			log.Err(err))
		c.emitError(err, domain.CodeNoResponse, "compress")
		return Response{Code: domain.CodeNoResponse}, err
	}

	c.opts.logger.Info("sending upload",
		log.String("url", c.url),
		log.Int("parts", parts),
		log.Int("body_bytes", body.Len()),
		log.Int("sent_bytes", compressed.Len()))

	start := time.Now()
	resp, err := c.opts.transport.Post(ctx, c.url, headers, compressed.Bytes())
	elapsed := time.Since(start)
	if err != nil {
		if resp.Code == 0 {
			resp.Code = domain.CodeNoResponse
		}
		c.opts.logger.Error("upload failed",
			log.String("url", c.url),
			log.Int("code", resp.Code),
			log.Duration("duration", elapsed),
			log.Err(err))
		c.emitError(err, resp.Code, "transport")
		return resp, err
	}

	c.opts.logger.Info("upload accepted",
		log.String("url", c.url),
		log.Int("response_bytes", len(resp.Body)),
		log.Duration("duration", elapsed))
	if c.opts.eventHandler != nil {
		c.opts.eventHandler.OnSendSuccess(SendSuccessEvent{
			Parts:     parts,
			BodyBytes: body.Len(),
			SentBytes: compressed.Len(),
			Duration:  elapsed,
		})
	}
	return resp, nil
}

func (c *Client) transitionTo(newState State, reason string) error {
	if err := validTransition(c.state, newState); err != nil {
		return err
	}
	oldState := c.state
	c.state = newState

	if c.opts.eventHandler != nil {
		c.opts.eventHandler.OnStateChange(StateChangeEvent{
			Previous: oldState,
			Current:  newState,
			Reason:   reason,
		})
	}

	c.opts.logger.Debug("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)
	return nil
}

func (c *Client) emitError(err error, code int, stage string) {
	if c.opts.eventHandler == nil {
		return
	}
	c.opts.eventHandler.OnSendError(SendErrorEvent{
		Error: err,
		Code:  code,
		Stage: stage,
	})
}
