package ports

import "net/http"

// HTTPClient is what the HTTP transport needs from an HTTP client.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}
