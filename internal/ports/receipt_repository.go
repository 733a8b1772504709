package ports

import (
	"context"

	"github.com/bft-labs/dumpship/pkg/state"
)

// ReceiptRepository persists upload receipts.
type ReceiptRepository interface {
	// Load returns the upload history. A missing history is empty, not an error.
	Load(ctx context.Context) (state.State, error)

	// Append records a receipt and returns the updated history.
	Append(ctx context.Context, rec state.Receipt) (state.State, error)
}
