package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/pkg/log"
)

// maxResponseBytes caps how much of a response body is kept.
const maxResponseBytes = 1 << 20

// Transport implements ports.Transport using net/http.
type Transport struct {
	client   ports.HTTPClient
	logger   log.Logger
	progress ports.ProgressBar
}

// NewTransport creates a new HTTP transport.
func NewTransport(client ports.HTTPClient, logger log.Logger) *Transport {
	return &Transport{
		client:   client,
		logger:   logger,
		progress: noopProgressBar{},
	}
}

// WithProgressBar reports upload progress on p. A nil p disables reporting.
func (t *Transport) WithProgressBar(p ports.ProgressBar) *Transport {
	if p == nil {
		p = noopProgressBar{}
	}
	t.progress = p
	return t
}

// Post sends body as a POST request and blocks until the response arrives.
// Header lines of the form "Name: value" are set as headers. Of the bare
// lines, a multipart media type (or else the first line) becomes the
// Content-Type and the rest are sent as Accept values.
func (t *Transport) Post(ctx context.Context, url string, headers []string, body []byte) (domain.Response, error) {
	t.progress.Init(int64(len(body)))
	reader := t.progress.ProxyReader(bytes.NewReader(body))
	defer reader.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		t.progress.Abort()
		return domain.Response{Code: domain.CodeNoResponse}, &domain.TransportError{
			Code: domain.CodeNoResponse,
			Err:  fmt.Errorf("create request: %w", err),
		}
	}
	req.ContentLength = int64(len(body))
	if len(body) == 0 {
		req.Body = http.NoBody
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	applyHeaderLines(req.Header, headers)

	resp, err := t.client.Do(req)
	if err != nil {
		t.progress.Abort()
		return domain.Response{Code: domain.CodeNoResponse}, &domain.TransportError{
			Code: domain.CodeNoResponse,
			Err:  fmt.Errorf("send request: %w", err),
		}
	}
	defer resp.Body.Close()
	t.progress.Wait()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		t.logger.Warn("response body truncated",
			log.String("url", url),
			log.Err(readErr))
	}

	t.logger.Debug("response received",
		log.String("url", url),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(respBody)))

	if resp.StatusCode/100 != 2 {
		return domain.Response{Body: string(respBody), Code: resp.StatusCode}, &domain.TransportError{
			Code: resp.StatusCode,
			Err:  fmt.Errorf("server returned %d", resp.StatusCode),
		}
	}

	return domain.Response{Body: string(respBody)}, nil
}

// applyHeaderLines adds raw header lines to h.
func applyHeaderLines(h http.Header, lines []string) {
	var bare []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && isToken(name) {
			h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
			continue
		}
		bare = append(bare, line)
	}
	if len(bare) == 0 {
		return
	}

	primary := 0
	for i, line := range bare {
		if mediaType, _, err := mime.ParseMediaType(line); err == nil && strings.HasPrefix(mediaType, "multipart/") {
			primary = i
			break
		}
	}
	h.Set("Content-Type", bare[primary])
	for i, line := range bare {
		if i != primary {
			h.Add("Accept", line)
		}
	}
}

// isToken reports whether s is a valid header field name.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", c):
		default:
			return false
		}
	}
	return true
}

type noopProgressBar struct{}

func (noopProgressBar) Init(int64)                            {}
func (noopProgressBar) ProxyReader(r io.Reader) io.ReadCloser { return io.NopCloser(r) }
func (noopProgressBar) Abort()                                {}
func (noopProgressBar) Wait()                                 {}
