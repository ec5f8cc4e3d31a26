package ports

import (
	"context"
	"io"

	"lastmile/internal/core/domain/model/order"
)

// ProofStorage keeps proof-of-delivery images outside the database.
type ProofStorage interface {
	Upload(ctx context.Context, body io.Reader, filename, contentType string) (order.Proof, error)
}
