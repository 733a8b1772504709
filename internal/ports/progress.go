package ports

import "io"

// ProgressBar reports how much of a request body has been sent.
type ProgressBar interface {
	// Init sets the total number of bytes.
	Init(size int64)

	// ProxyReader wraps r so reads advance the bar.
	ProxyReader(r io.Reader) io.ReadCloser

	// Abort stops the bar after a failed transfer.
	Abort()

	// Wait completes the bar after a successful transfer.
	Wait()
}
