package ports

import (
	"context"

	"github.com/bft-labs/dumpship/internal/domain"
)

// Transport posts a request body and blocks until the response arrives.
type Transport interface {
	// Post sends body to url with the given raw header lines.
	// It blocks until a response or a transport error. On success the
	// returned Response has Code 0; otherwise Code is non-zero and the error
	// is a *domain.TransportError.
	Post(ctx context.Context, url string, headers []string, body []byte) (domain.Response, error)
}
