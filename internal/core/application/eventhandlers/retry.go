package eventhandlers

import (
	"context"
	"errors"
	"log/slog"

	"lastmile/internal/pkg/errs"
)

// maxConflictAttempts bounds read-modify-write retries on optimistic concurrency conflicts.
const maxConflictAttempts = 3

// retryOnConflict reruns fn while it fails with errs.ErrVersionIsInvalid.
func retryOnConflict(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
		logger.WarnContext(ctx, "Version conflict, retrying", "operation", op, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
