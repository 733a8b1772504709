package upload

import (
	"fmt"
	"net/http"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/pkg/log"
	"github.com/bft-labs/dumpship/pkg/multipart"
)

// Re-export collaborator interfaces so callers can supply their own
// implementations without importing internal packages.
type (
	// FileReader loads attachment payloads.
	FileReader = ports.FileReader

	// Compressor transforms the request body before it is sent.
	Compressor = ports.Compressor

	// Transport posts the body and blocks for the response.
	Transport = ports.Transport

	// HTTPClient is satisfied by *http.Client.
	HTTPClient = ports.HTTPClient

	// ProgressBar reports upload progress of the default transport.
	ProgressBar = ports.ProgressBar

	// RandomSource supplies boundary randomness.
	RandomSource = multipart.RandomSource

	// Response is the outcome of one upload.
	Response = domain.Response
)

// HeaderSet selects which content-type header lines a request carries.
type HeaderSet int

const (
	// HeaderSetLegacy adds a bare "text/html" line before the multipart
	// content type. The HTTP transport sends it as an Accept value.
	HeaderSetLegacy HeaderSet = iota

	// HeaderSetMultipart sends only the multipart content type.
	HeaderSetMultipart
)

// String returns the configuration name of the header set.
func (h HeaderSet) String() string {
	switch h {
	case HeaderSetLegacy:
		return "legacy"
	case HeaderSetMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// ParseHeaderSet parses "legacy" or "multipart".
func ParseHeaderSet(s string) (HeaderSet, error) {
	switch s {
	case "legacy", "":
		return HeaderSetLegacy, nil
	case "multipart":
		return HeaderSetMultipart, nil
	default:
		return HeaderSetLegacy, fmt.Errorf("unknown header set %q: %w", s, domain.ErrInvalidConfig)
	}
}

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client.
type options struct {
	fileReader   ports.FileReader
	compressor   ports.Compressor
	transport    ports.Transport
	httpClient   ports.HTTPClient
	random       multipart.RandomSource
	logger       log.Logger
	eventHandler EventHandler
	headerSet    HeaderSet
	progress     ports.ProgressBar
}

// defaultOptions returns options with sensible defaults. The file reader,
// compressor and transport are filled in by New when left unset.
func defaultOptions() options {
	return options{
		httpClient: http.DefaultClient,
		random:     multipart.DefaultRandom(),
		logger:     log.NewNoopLogger(),
		headerSet:  HeaderSetLegacy,
	}
}

// WithFileReader sets how attachments given by path are read.
func WithFileReader(r FileReader) Option {
	return func(o *options) {
		o.fileReader = r
	}
}

// WithCompressor sets the body compressor. The default is gzip.
func WithCompressor(c Compressor) Option {
	return func(o *options) {
		o.compressor = c
	}
}

// WithTransport sets the transport used by Send. It takes precedence over
// WithHTTPClient.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithHTTPClient sets the HTTP client of the default transport.
// Timeouts configured on the client bound every Send.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithRandom sets the random source for boundary generation.
func WithRandom(src RandomSource) Option {
	return func(o *options) {
		o.random = src
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for client events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithHeaderSet selects the content-type header lines.
func WithHeaderSet(h HeaderSet) Option {
	return func(o *options) {
		o.headerSet = h
	}
}

// WithProgressBar reports how much of the body the default transport has
// sent. It has no effect together with WithTransport.
func WithProgressBar(p ProgressBar) Option {
	return func(o *options) {
		o.progress = p
	}
}
